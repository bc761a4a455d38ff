package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"notekeeper-server/internal/domain"
	"notekeeper-server/internal/middleware"
	"notekeeper-server/internal/service"
	"notekeeper-server/pkg/response"

	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	service  *service.UserService
	validate *validator.Validate
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetByID(r.Context(), middleware.GetUserID(r))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w, "Failed to load user")
		return
	}

	response.Success(w, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), middleware.GetUserID(r), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(w, "User not found")
		case errors.Is(err, service.ErrUsernameTaken):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to update user")
		}
		return
	}

	response.Success(w, user)
}
