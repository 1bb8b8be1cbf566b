package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"sharemark/internal/handlers"
	"sharemark/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	// Path variables are matched encoded so a tag may contain "/".
	r := mux.NewRouter().UseEncodedPath()

	r.Use(middlewares.LogMiddleware)
	r.Use(middlewares.NewCorsMiddleware(s.cfg.Server.AllowedOrigins))
	r.Use(s.metrics.Instrument)

	ch := handlers.NewCommonHandler(s.db, s.cfg.Server.FrontendURL)
	r.HandleFunc("/health", ch.HealthHandler).Methods("GET")
	r.HandleFunc("/add", ch.BookmarkletHandler).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	s.registerBookmarkRoutes(api)
	s.registerTagRoutes(api)
	s.registerUserRoutes(api)

	return r
}

func (s *Server) registerBookmarkRoutes(r *mux.Router) {
	bh := handlers.NewBookmarksHandler(s.bookmarkService)
	auth := middlewares.AuthMiddleware(s.verifier)
	optional := middlewares.OptionalAuthMiddleware(s.verifier)

	r.Handle("/bookmarks", optional(http.HandlerFunc(bh.GetBookmarks))).Methods("GET", "OPTIONS")
	r.Handle("/bookmarks", auth(http.HandlerFunc(bh.AddBookmark))).Methods("POST", "OPTIONS")
	r.Handle("/bookmarks/{id}", optional(http.HandlerFunc(bh.GetBookmarkByID))).Methods("GET", "OPTIONS")
	r.Handle("/bookmarks/{id}", auth(http.HandlerFunc(bh.UpdateBookmark))).Methods("PUT", "OPTIONS")
	r.Handle("/bookmarks/{id}", auth(http.HandlerFunc(bh.DeleteBookmark))).Methods("DELETE", "OPTIONS")
	r.Handle("/bookmarks/{id}/share", auth(http.HandlerFunc(bh.UpdateSharing))).Methods("PUT", "OPTIONS")
}

// registerTagRoutes mounts the tag routes. Rename and delete touch every
// bookmark in the store and are only authenticated when configured to be.
func (s *Server) registerTagRoutes(r *mux.Router) {
	th := handlers.NewTagHandler(s.tagService)

	guard := func(h http.Handler) http.Handler { return h }
	if s.cfg.Tags.RequireAuth {
		guard = middlewares.AuthMiddleware(s.verifier)
	} else {
		log.Warn().Msg("Tag rename and delete routes are unauthenticated; set TAG_ADMIN_REQUIRE_AUTH=true to protect them")
	}

	r.HandleFunc("/tags", th.GetTags).Methods("GET", "OPTIONS")
	r.Handle("/tags/{oldName}", guard(http.HandlerFunc(th.RenameTag))).Methods("PUT", "OPTIONS")
	r.Handle("/tags/{tagName}", guard(http.HandlerFunc(th.DeleteTag))).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerUserRoutes(r *mux.Router) {
	uh := handlers.NewUserHandler(s.userService)
	r.Handle("/users/shareable", middlewares.AuthMiddleware(s.verifier)(http.HandlerFunc(uh.GetShareableUsers))).Methods("GET", "OPTIONS")
}
