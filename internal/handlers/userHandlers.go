package handlers

import (
	"net/http"

	"sharemark/internal/services"
	"sharemark/internal/utils"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// GetShareableUsers lists the users the caller can share bookmarks with.
func (h *UserHandler) GetShareableUsers(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	users, err := h.service.ListShareable(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		serviceErrorEvent(err).Str("user_id", userID.Hex()).Msg("Error listing shareable users via service")
		utils.SendServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}
