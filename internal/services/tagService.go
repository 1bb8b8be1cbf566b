package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"sharemark/internal/apperrors"
	"sharemark/internal/metrics"
	"sharemark/internal/models"
	"sharemark/internal/repositories"
	"sharemark/internal/utils"
)

// TagService runs tag operations across every bookmark in the store.
// Tags have no document of their own; they exist only inside bookmarks.
type TagService interface {
	ListTags(ctx context.Context) ([]models.TagCount, error)
	RenameTag(ctx context.Context, oldName, newName string) (*models.TagMutationResult, error)
	DeleteTag(ctx context.Context, tagName string) (*models.TagMutationResult, error)
}

type tagServiceImpl struct {
	tagRepo repositories.TagRepository
	now     func() time.Time
}

func NewTagService(tagRepo repositories.TagRepository) TagService {
	return &tagServiceImpl{tagRepo: tagRepo, now: time.Now}
}

func (s *tagServiceImpl) ListTags(ctx context.Context) ([]models.TagCount, error) {
	log.Debug().Msg("Attempting to list tags")
	tags, err := s.tagRepo.CountByName(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error counting tags")
		return nil, apperrors.Internal("failed to list tags", err)
	}
	return tags, nil
}

// RenameTag rewrites oldName to newName on each matching bookmark, one
// document at a time. A failure part way through leaves the earlier
// bookmarks renamed.
func (s *tagServiceImpl) RenameTag(ctx context.Context, oldName, newName string) (*models.TagMutationResult, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" {
		return nil, apperrors.InvalidArgument("Tag name is required")
	}
	if newName == "" {
		return nil, apperrors.InvalidArgument("New tag name is required")
	}
	if oldName == newName {
		return nil, apperrors.InvalidArgument("New tag name must differ from the current name")
	}
	log.Debug().Str("oldName", oldName).Str("newName", newName).Msg("Attempting to rename tag")

	bookmarks, err := s.tagRepo.FindByTag(ctx, oldName)
	if err != nil {
		log.Error().Err(err).Str("oldName", oldName).Msg("Error finding bookmarks by tag")
		return nil, apperrors.Internal("failed to rename tag", err)
	}
	if len(bookmarks) == 0 {
		return &models.TagMutationResult{Message: fmt.Sprintf("No bookmarks found with tag %q", oldName)}, nil
	}

	var renamed int64
	for _, bm := range bookmarks {
		tags := renameInTags(bm.Tags, oldName, newName)
		if err := s.tagRepo.SetTags(ctx, bm.ID, tags, s.now().UTC()); err != nil {
			log.Error().Err(err).Str("bookmarkID", bm.ID.Hex()).Int64("renamed", renamed).Int("total", len(bookmarks)).Msg("Tag rename stopped part way")
			return nil, apperrors.Internal("failed to rename tag", err)
		}
		renamed++
	}

	metrics.TagRenamedBookmarksTotal.Add(float64(renamed))
	log.Info().Str("oldName", oldName).Str("newName", newName).Int64("modified", renamed).Msg("Tag renamed successfully")
	return &models.TagMutationResult{
		Message:  fmt.Sprintf("Tag %q renamed to %q on %d bookmarks", oldName, newName, renamed),
		Modified: renamed,
	}, nil
}

// renameInTags replaces oldName with newName in place. When newName is
// already present oldName is only removed.
func renameInTags(tags []string, oldName, newName string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == oldName {
			tag = newName
		}
		out = append(out, tag)
	}
	return utils.NormalizeTags(out)
}

func (s *tagServiceImpl) DeleteTag(ctx context.Context, tagName string) (*models.TagMutationResult, error) {
	tagName = strings.TrimSpace(tagName)
	if tagName == "" {
		return nil, apperrors.InvalidArgument("Tag name is required")
	}
	log.Debug().Str("tagName", tagName).Msg("Attempting to delete tag")

	modified, err := s.tagRepo.PullFromAll(ctx, tagName, s.now().UTC())
	if err != nil {
		log.Error().Err(err).Str("tagName", tagName).Msg("Error removing tag from bookmarks")
		return nil, apperrors.Internal("failed to delete tag", err)
	}
	if modified == 0 {
		return &models.TagMutationResult{Message: fmt.Sprintf("No bookmarks found with tag %q", tagName)}, nil
	}

	metrics.TagDeletedBookmarksTotal.Add(float64(modified))
	log.Info().Str("tagName", tagName).Int64("modified", modified).Msg("Tag deleted successfully")
	return &models.TagMutationResult{
		Message:  fmt.Sprintf("Tag %q removed from %d bookmarks", tagName, modified),
		Modified: modified,
	}, nil
}
