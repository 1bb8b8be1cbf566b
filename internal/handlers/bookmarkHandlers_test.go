package handlers

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"sharemark/internal/apperrors"
	"sharemark/internal/models"
)

func TestBulkStatus(t *testing.T) {
	invalid := models.CreateResult{Err: apperrors.InvalidArgument("URL and Title are required")}
	internal := models.CreateResult{Err: apperrors.Internal("failed to add bookmark", errors.New("timeout"))}
	created := models.CreateResult{Bookmark: &models.Bookmark{}}

	tests := []struct {
		name    string
		results []models.CreateResult
		want    int
	}{
		{"all created", []models.CreateResult{created, created}, http.StatusCreated},
		{"some created", []models.CreateResult{invalid, created, internal}, http.StatusCreated},
		{"all invalid", []models.CreateResult{invalid, invalid}, http.StatusBadRequest},
		{"store failure", []models.CreateResult{invalid, internal}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bulkStatus(tt.results))
		})
	}
}
