package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"notekeeper-server/internal/domain"
	"notekeeper-server/internal/middleware"
	"notekeeper-server/internal/service"
	"notekeeper-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type NoteHandler struct {
	service  *service.NoteService
	validate *validator.Validate
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	note, err := h.service.Create(r.Context(), middleware.GetUserID(r), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, note)
}

func (h *NoteHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListActive)
}

func (h *NoteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListFavorites)
}

func (h *NoteHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListArchived)
}

func (h *NoteHandler) ListTrashed(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListTrashed)
}

func (h *NoteHandler) list(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) ([]*domain.Note, error)) {
	notes, err := fn(r.Context(), middleware.GetUserID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	noteID, ok := notePathID(w, r)
	if !ok {
		return
	}

	note, err := h.service.Get(r.Context(), middleware.GetUserID(r), noteID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	noteID, ok := notePathID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	note, err := h.service.Update(r.Context(), middleware.GetUserID(r), noteID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Archive)
}

func (h *NoteHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Unarchive)
}

// Trash handles DELETE on an active note: the note moves to the trash
// rather than being destroyed.
func (h *NoteHandler) Trash(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Trash)
}

func (h *NoteHandler) TrashArchived(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.TrashArchived)
}

func (h *NoteHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Restore)
}

func (h *NoteHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ToggleFavorite)
}

func (h *NoteHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, string, string) (*domain.Note, error)) {
	noteID, ok := notePathID(w, r)
	if !ok {
		return
	}

	note, err := fn(r.Context(), middleware.GetUserID(r), noteID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, note)
}

func (h *NoteHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	noteID, ok := notePathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Destroy(r.Context(), middleware.GetUserID(r), noteID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Note permanently deleted"})
}

func (h *NoteHandler) ArchiveMany(w http.ResponseWriter, r *http.Request) {
	h.batch(w, r, h.service.ArchiveMany)
}

func (h *NoteHandler) TrashMany(w http.ResponseWriter, r *http.Request) {
	h.batch(w, r, h.service.TrashMany)
}

func (h *NoteHandler) RestoreMany(w http.ResponseWriter, r *http.Request) {
	h.batch(w, r, h.service.RestoreMany)
}

func (h *NoteHandler) DestroyMany(w http.ResponseWriter, r *http.Request) {
	h.batch(w, r, h.service.DestroyMany)
}

func (h *NoteHandler) UnfavoriteMany(w http.ResponseWriter, r *http.Request) {
	h.batch(w, r, h.service.UnfavoriteMany)
}

func (h *NoteHandler) batch(w http.ResponseWriter, r *http.Request, fn func(context.Context, string, []string) (*domain.BatchResult, error)) {
	var req domain.BatchNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := fn(r.Context(), middleware.GetUserID(r), req.IDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, result)
}

func notePathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.BadRequest(w, "Note ID is required")
		return "", false
	}
	return noteID, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		response.BadRequest(w, ve.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(w, "Note not found")
	default:
		response.InternalError(w, "Internal server error")
	}
}
