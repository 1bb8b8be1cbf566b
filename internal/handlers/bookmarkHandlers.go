package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sharemark/internal/apperrors"
	"sharemark/internal/models"
	"sharemark/internal/services"
	"sharemark/internal/utils"
)

type BookmarkHandler struct {
	service services.BookmarkService
}

func NewBookmarksHandler(service services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{service: service}
}

// serviceErrorEvent logs client mistakes at warn and everything else at
// error.
func serviceErrorEvent(err error) *zerolog.Event {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		return log.Error().Err(err)
	}
	return log.Warn().Err(err)
}

func (h *BookmarkHandler) GetBookmarks(w http.ResponseWriter, r *http.Request) {
	requester := utils.RequesterFromContext(r.Context())
	query := r.URL.Query()

	bookmarks, err := h.service.GetBookmarks(r.Context(), requester, query.Get("tag"), query.Get("q"))
	if err != nil {
		serviceErrorEvent(err).Msg("Error getting bookmarks from service")
		utils.SendServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bookmarks)
}

func (h *BookmarkHandler) GetBookmarkByID(w http.ResponseWriter, r *http.Request) {
	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	bm, err := h.service.GetBookmarkByID(r.Context(), utils.RequesterFromContext(r.Context()), bookmarkID)
	if err != nil {
		serviceErrorEvent(err).Str("bookmark_id", bookmarkID.Hex()).Msg("Error getting bookmark by ID from service")
		utils.SendServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, bm)
}

// AddBookmark accepts a single bookmark object or an array of them. Arrays
// are created item by item and answered with one result per item.
func (h *BookmarkHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	var payload models.DraftPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Warn().Err(err).Msg("Error decoding request body for AddBookmark")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	results, err := h.service.AddBookmarks(r.Context(), &userID, payload.Drafts)
	if err != nil {
		serviceErrorEvent(err).Str("user_id", userID.Hex()).Msg("Error adding bookmarks via service")
		utils.SendServiceError(w, err)
		return
	}

	if !payload.Many {
		if results[0].Err != nil {
			serviceErrorEvent(results[0].Err).Str("user_id", userID.Hex()).Msg("Error adding bookmark via service")
			utils.SendServiceError(w, results[0].Err)
			return
		}
		utils.RespondWithJSON(w, http.StatusCreated, results[0].Bookmark)
		return
	}

	log.Info().Str("user_id", userID.Hex()).Int("submitted", len(results)).Int("created", createdCount(results)).Msg("Bulk bookmark create finished")
	utils.RespondWithJSON(w, bulkStatus(results), results)
}

func createdCount(results []models.CreateResult) int {
	n := 0
	for _, res := range results {
		if res.Bookmark != nil {
			n++
		}
	}
	return n
}

// bulkStatus is 201 when anything was created, 400 when every item was
// rejected as invalid and 500 otherwise.
func bulkStatus(results []models.CreateResult) int {
	if createdCount(results) > 0 {
		return http.StatusCreated
	}
	for _, res := range results {
		if !apperrors.Is(res.Err, apperrors.KindInvalidArgument) {
			return http.StatusInternalServerError
		}
	}
	return http.StatusBadRequest
}

func (h *BookmarkHandler) UpdateBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var patch models.BookmarkPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Warn().Err(err).Msg("Error decoding request body for UpdateBookmark")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateBookmark(r.Context(), &userID, bookmarkID, patch)
	if err != nil {
		serviceErrorEvent(err).Str("bookmark_id", bookmarkID.Hex()).Msg("Error updating bookmark via service")
		utils.SendServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *BookmarkHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.DeleteBookmark(r.Context(), &userID, bookmarkID); err != nil {
		serviceErrorEvent(err).Str("bookmark_id", bookmarkID.Hex()).Msg("Error deleting bookmark via service")
		utils.SendServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Bookmark removed"})
}

func (h *BookmarkHandler) UpdateSharing(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	bookmarkID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var update models.SharingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Warn().Err(err).Msg("Error decoding request body for UpdateSharing")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.UpdateSharing(r.Context(), &userID, bookmarkID, update)
	if err != nil {
		serviceErrorEvent(err).Str("bookmark_id", bookmarkID.Hex()).Msg("Error updating sharing via service")
		utils.SendServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Sharing settings updated",
		"bookmark": result,
	})
}
