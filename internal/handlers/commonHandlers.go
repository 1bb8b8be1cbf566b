package handlers

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"sharemark/internal/database"
	"sharemark/internal/utils"
)

type CommonHandler struct {
	db          database.Service
	frontendURL string
}

func NewCommonHandler(db database.Service, frontendURL string) *CommonHandler {
	return &CommonHandler{db: db, frontendURL: frontendURL}
}

func (h *CommonHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, h.db.Health())
}

var bookmarkletParams = []string{"url", "title", "description", "favicon"}

// BookmarkletHandler forwards a bookmarklet click to the frontend add form
// with the page details pre-filled.
func (h *CommonHandler) BookmarkletHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	target, err := url.Parse(query.Get("url"))
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		log.Warn().Str("url", query.Get("url")).Msg("Rejected bookmarklet request with invalid url")
		utils.SendJSONError(w, "A valid http or https url is required", http.StatusBadRequest)
		return
	}

	forward := url.Values{}
	for _, key := range bookmarkletParams {
		if v := query.Get(key); v != "" {
			forward.Set(key, v)
		}
	}

	http.Redirect(w, r, h.frontendURL+"/add?"+forward.Encode(), http.StatusFound)
}
