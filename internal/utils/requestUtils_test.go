package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sharemark/internal/apperrors"
)

func TestRequesterFromContext(t *testing.T) {
	assert.Nil(t, RequesterFromContext(context.Background()))

	userID := primitive.NewObjectID()
	got := RequesterFromContext(WithUserID(context.Background(), userID))
	require.NotNil(t, got)
	assert.Equal(t, userID, *got)

	assert.Nil(t, RequesterFromContext(WithUserID(context.Background(), primitive.NilObjectID)))
}

func TestGetUserIDFromContextWritesUnauthorized(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := GetUserIDFromContext(w, r)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetObjectIDFromVars(t *testing.T) {
	id := primitive.NewObjectID()

	w := httptest.NewRecorder()
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": id.Hex()})
	got, err := GetObjectIDFromVars(w, r, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	w = httptest.NewRecorder()
	r = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "zzz"})
	_, err = GetObjectIDFromVars(w, r, "id")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidArgument))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStringFromVars(t *testing.T) {
	w := httptest.NewRecorder()
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"tagName": "ci%2Fcd"})
	got, err := GetStringFromVars(w, r, "tagName")
	require.NoError(t, err)
	assert.Equal(t, "ci/cd", got)

	w = httptest.NewRecorder()
	r = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"tagName": "bad%zz"})
	_, err = GetStringFromVars(w, r, "tagName")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendServiceError(t *testing.T) {
	w := httptest.NewRecorder()
	SendServiceError(w, apperrors.Forbidden("Not authorized to view this bookmark"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Not authorized to view this bookmark", body["message"])
}

func TestParseObjectIDs(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	ids, err := ParseObjectIDs([]string{a.Hex(), " " + b.Hex(), a.Hex()})
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{a, b}, ids)

	_, err = ParseObjectIDs([]string{a.Hex(), "nope"})
	assert.Error(t, err)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"go", "news", "Go"}, NormalizeTags([]string{" go", "news", "", "go ", "Go"}))
	assert.Empty(t, NormalizeTags(nil))
}
