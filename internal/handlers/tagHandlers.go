package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"sharemark/internal/models"
	"sharemark/internal/services"
	"sharemark/internal/utils"
)

type TagHandler struct {
	service services.TagService
}

func NewTagHandler(service services.TagService) *TagHandler {
	return &TagHandler{service: service}
}

func (h *TagHandler) GetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		serviceErrorEvent(err).Msg("Error listing tags via service")
		utils.SendServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, tags)
}

func (h *TagHandler) RenameTag(w http.ResponseWriter, r *http.Request) {
	oldName, err := utils.GetStringFromVars(w, r, "oldName")
	if err != nil {
		return
	}

	var req models.TagRenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Error decoding request body for RenameTag")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.RenameTag(r.Context(), oldName, req.NewName)
	if err != nil {
		serviceErrorEvent(err).Str("tag", oldName).Msg("Error renaming tag via service")
		utils.SendServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	tagName, err := utils.GetStringFromVars(w, r, "tagName")
	if err != nil {
		return
	}

	result, err := h.service.DeleteTag(r.Context(), tagName)
	if err != nil {
		serviceErrorEvent(err).Str("tag", tagName).Msg("Error deleting tag via service")
		utils.SendServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}
