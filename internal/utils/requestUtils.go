package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sharemark/internal/apperrors"
)

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID stores the authenticated user id on the request context.
func WithUserID(ctx context.Context, userID primitive.ObjectID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequesterFromContext returns the authenticated user id, or nil for an
// anonymous request.
func RequesterFromContext(ctx context.Context) *primitive.ObjectID {
	userID, ok := ctx.Value(userIDKey).(primitive.ObjectID)
	if !ok || userID.IsZero() {
		return nil
	}
	return &userID
}

// GetUserIDFromContext extracts the userID set by the auth middleware and
// writes a 401 when it is missing.
func GetUserIDFromContext(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, error) {
	requester := RequesterFromContext(r.Context())
	if requester == nil {
		err := apperrors.Unauthorized("authentication required")
		SendServiceError(w, err)
		return primitive.NilObjectID, err
	}
	return *requester, nil
}

// GetStringFromVars returns the unescaped value of a path variable. The
// router matches on the encoded path, so values may contain "/" sent as %2F.
func GetStringFromVars(w http.ResponseWriter, r *http.Request, paramName string) (string, error) {
	value, err := url.PathUnescape(mux.Vars(r)[paramName])
	if err != nil {
		appErr := apperrors.InvalidArgument("invalid " + paramName + " parameter")
		SendServiceError(w, appErr)
		return "", appErr
	}
	return value, nil
}

// GetObjectIDFromVars extracts and parses an ObjectID from mux.Vars.
func GetObjectIDFromVars(w http.ResponseWriter, r *http.Request, paramName string) (primitive.ObjectID, error) {
	idStr := mux.Vars(r)[paramName]
	if idStr == "" {
		err := apperrors.InvalidArgument("missing ID parameter")
		SendServiceError(w, err)
		return primitive.NilObjectID, err
	}

	objID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		appErr := apperrors.InvalidArgument("invalid ID format")
		SendServiceError(w, appErr)
		return primitive.NilObjectID, appErr
	}
	return objID, nil
}

func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Error encoding JSON response")
	}
}

func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	RespondWithJSON(w, statusCode, map[string]string{"message": message})
}

// SendServiceError maps an error from the service layer onto a status code
// and a client-safe message.
func SendServiceError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	SendJSONError(w, apperrors.PublicMessage(err), apperrors.HTTPStatus(kind))
}
