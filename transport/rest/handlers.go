package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/matchroom-backend/internal/apperror"
	"github.com/rocketscienceinc/matchroom-backend/internal/repository"
)

type handler struct {
	logger  *slog.Logger
	status  statusProvider
	history historyReader
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *handler) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

// roomStatus - read-only snapshot of a room's current state. Never mutates
// the room.
func (that *handler) roomStatus(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	snapshot, err := that.status.Snapshot(r.Context(), roomID)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "room not found"})
		return
	}

	if err != nil {
		that.logger.Error("failed to read room status", "roomID", roomID, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handler) roomHistory(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	records, err := that.history.ListByRoom(r.Context(), roomID)
	if errors.Is(err, repository.ErrHistoryNotFound) {
		// A live room with no finished rounds has an empty history, not a
		// missing one; only an unknown room is a 404.
		if _, statusErr := that.status.Snapshot(r.Context(), roomID); statusErr == nil {
			that.writeJSON(w, http.StatusOK, []repository.RoundRecord{})
			return
		}

		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "round history not found"})
		return
	}

	if err != nil {
		that.logger.Error("failed to read round history", "roomID", roomID, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	that.writeJSON(w, http.StatusOK, records)
}

func (that *handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
