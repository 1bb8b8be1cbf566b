package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("bookmark not found"), KindNotFound},
		{"forbidden", Forbidden("nope"), KindForbidden},
		{"unauthorized", Unauthorized("no token"), KindUnauthorized},
		{"invalid", InvalidArgument("bad id"), KindInvalidArgument},
		{"internal", Internal("db down", errors.New("socket closed")), KindInternal},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("inner")), KindNotFound},
		{"foreign", errors.New("plain"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestPublicMessageHidesCause(t *testing.T) {
	err := Internal("failed to retrieve bookmark", errors.New("connection refused 10.0.0.4"))

	assert.Equal(t, "failed to retrieve bookmark", PublicMessage(err))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw driver error")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(KindNotFound))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(KindForbidden))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(KindUnauthorized))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindInvalidArgument))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindInternal))
}
