package middlewares

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sharemark/internal/utils"
)

// TokenVerifier turns a bearer token into the id of the user it was issued
// for.
type TokenVerifier interface {
	Verify(token string) (primitive.ObjectID, error)
}

func authenticate(verifier TokenVerifier, r *http.Request) (primitive.ObjectID, error) {
	token, err := utils.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return primitive.NilObjectID, err
	}
	return verifier.Verify(token)
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := authenticate(verifier, r)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected unauthenticated request")
				utils.SendJSONError(w, authMessage(err), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuthMiddleware attaches the user id when a valid token is present
// and otherwise serves the request anonymously.
func OptionalAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := authenticate(verifier, r)
			if err != nil {
				if !errors.Is(err, utils.ErrMissingToken) {
					log.Debug().Err(err).Str("path", r.URL.Path).Msg("Ignoring invalid token on optional auth route")
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), userID)))
		})
	}
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, utils.ErrMissingToken):
		return "No token, authorization denied"
	case errors.Is(err, utils.ErrExpiredToken):
		return "Token has expired"
	default:
		return "Token is not valid"
	}
}
