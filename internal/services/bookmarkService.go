package services

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sharemark/internal/apperrors"
	"sharemark/internal/metrics"
	"sharemark/internal/models"
	"sharemark/internal/policy"
	"sharemark/internal/repositories"
	"sharemark/internal/utils"
)

type BookmarkService interface {
	GetBookmarks(ctx context.Context, requester *primitive.ObjectID, tag, search string) ([]models.Bookmark, error)
	GetBookmarkByID(ctx context.Context, requester *primitive.ObjectID, bookmarkID primitive.ObjectID) (*models.Bookmark, error)
	AddBookmarks(ctx context.Context, requester *primitive.ObjectID, drafts []models.BookmarkDraft) ([]models.CreateResult, error)
	UpdateBookmark(ctx context.Context, requester *primitive.ObjectID, bookmarkID primitive.ObjectID, patch models.BookmarkPatch) (*models.Bookmark, error)
	DeleteBookmark(ctx context.Context, requester *primitive.ObjectID, bookmarkID primitive.ObjectID) error
	UpdateSharing(ctx context.Context, requester *primitive.ObjectID, bookmarkID primitive.ObjectID, update models.SharingUpdate) (*models.SharingResult, error)
}

type bookmarkServiceImpl struct {
	bookmarkRepo repositories.BookmarkRepository
	now          func() time.Time
}

func NewBookmarkService(bookmarkRepo repositories.BookmarkRepository) BookmarkService {
	return &bookmarkServiceImpl{bookmarkRepo: bookmarkRepo, now: time.Now}
}

func requesterField(requester *primitive.ObjectID) string {
	if requester == nil {
		return "anonymous"
	}
	return requester.Hex()
}

func (s *bookmarkServiceImpl) GetBookmarks(ctx context.Context, requester *primitive.ObjectID, tag, search string) ([]models.Bookmark, error) {
	log.Debug().Str("userID", requesterField(requester)).Str("tag", tag).Str("search", search).Msg("Attempting to retrieve bookmarks")

	query := models.BookmarkQuery{
		Requester: requester,
		Tag:       strings.TrimSpace(tag),
		Search:    strings.TrimSpace(search),
	}
	bookmarks, err := s.bookmarkRepo.FindMany(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("userID", requesterField(requester)).Msg("Error finding bookmarks")
		return nil, apperrors.Internal("failed to retrieve bookmarks", err)
	}

	log.Debug().Str("userID", requesterField(requester)).Int("count", len(bookmarks)).Msg("Successfully retrieved bookmarks")
	return bookmarks, nil
}

func (s *bookmarkServiceImpl) GetBookmarkByID(ctx context.Context, requester *primitive.ObjectID, bookmarkID primitive.ObjectID) (*models.Bookmark, error) {
	log.Debug().Str("userID", requesterField(requester)).Str("bookmarkID", bookmarkID.Hex()).Msg("Attempting to retrieve bookmark by ID")

	bm, err := s.fetch(ctx, bookmarkID)
	if err != nil {
		return nil, err
	}

	if !policy.CanRead(bm, requester) {
		metrics.AccessDeniedTotal.WithLabelValues("read").Inc()
		log.Warn().Str("userID", requesterField(requester)).Str("bookmarkID", bookmarkID.Hex()).Msg("Visibility denies read access")
		return nil, apperrors.Forbidden("Not authorized to view this bookmark")
	}
	return bm, nil
}

func (s *bookmarkServiceImpl) AddBookmarks(ctx context.Context, requester *primitive.ObjectID, drafts []models.BookmarkDraft) ([]models.CreateResult, error) {
	if requester == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}
	if len(drafts) == 0 {
		return nil, apperrors.InvalidArgument("at least one bookmark is required")
	}
	log.Debug().Str("userID", requester.Hex()).Int("count", len(drafts)).Msg("Attempting to add bookmarks")

	results := make([]models.CreateResult, len(drafts))
	for i, draft := range drafts {
		results[i].Index = i

		bm, err := s.buildBookmark(draft, *requester)
		if err == nil {
			bm, err = s.insert(ctx, bm)
		}
		if err != nil {
			log.Warn().Err(err).Str("userID", requester.Hex()).Int("index", i).Msg("Bookmark draft rejected")
			results[i].Err = err
			results[i].Error = apperrors.PublicMessage(err)
			continue
		}

		metrics.BookmarkCreatedTotal.Inc()
		log.Info().Str("userID", requester.Hex()).Str("bookmarkID", bm.ID.Hex()).Msg("Bookmark added successfully")
		results[i].Bookmark = bm
	}
	return results, nil
}

func (s *bookmarkServiceImpl) buildBookmark(draft models.BookmarkDraft, owner primitive.ObjectID) (*models.Bookmark, error) {
	url := strings.TrimSpace(draft.URL)
	title := strings.TrimSpace(draft.Title)
	if url == "" || title == "" {
		return nil, apperrors.InvalidArgument("URL and Title are required")
	}

	visibility := draft.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if !visibility.Valid() {
		return nil, apperrors.InvalidArgument("Invalid visibility value")
	}

	var sharedWith *[]string
	if draft.SharedWith != nil {
		sharedWith = &draft.SharedWith
	}
	shareList, err := resolveShareList(visibility, sharedWith, nil)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return &models.Bookmark{
		ID:          primitive.NewObjectID(),
		URL:         url,
		Title:       title,
		Description: draft.Description,
		Tags:        utils.NormalizeTags(draft.Tags),
		Favicon:     draft.Favicon,
		Owner:       owner,
		Visibility:  visibility,
		SharedWith:  shareList,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *bookmarkServiceImpl) insert(ctx context.Context, bm *models.Bookmark) (*models.Bookmark, error) {
	created, err := s.bookmarkRepo.Insert(ctx, bm)
	if err != nil {
		log.Error().Err(err).Str("userID", bm.Owner.Hex()).Msg("Error inserting bookmark")
		return nil, apperrors.Internal("failed to add bookmark", err)
	}
	return created, nil
}

func (s *bookmarkServiceImpl) UpdateBookmark(ctx context.Context, requester *primitive.ObjectID, bookmarkID primitive.ObjectID, patch models.BookmarkPatch) (*models.Bookmark, error) {
	if requester == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}
	log.Debug().Str("userID", requester.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Attempting to update bookmark")

	updateFields, sharedWith, err := buildUpdateFields(patch)
	if err != nil {
		log.Warn().Err(err).Str("userID", requester.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Invalid bookmark update")
		return nil, err
	}

	bm, err := s.fetchWritable(ctx, requester, bookmarkID, "update")
	if err != nil {
		return nil, err
	}

	if patch.Visibility != nil || patch.SharedWith != nil {
		visibility := bm.Visibility
		if !visibility.Valid() {
			visibility = models.VisibilityPrivate
		}
		if patch.Visibility != nil {
			visibility = *patch.Visibility
		}
		if sharedWith == nil {
			sharedWith = bm.SharedWith
		}
		updateFields["visibility"] = visibility
		updateFields["sharedWith"] = shareListFor(visibility, sharedWith)
	}
	updateFields["updatedAt"] = s.now().UTC()

	updated, err := s.bookmarkRepo.UpdateByID(ctx, bookmarkID, updateFields)
	if err != nil {
		log.Error().Err(err).Str("bookmarkID", bookmarkID.Hex()).Str("userID", requester.Hex()).Msg("Error updating bookmark")
		return nil, storeError(err, "failed to update bookmark")
	}

	metrics.BookmarkUpdatedTotal.Inc()
	log.Info().Str("userID", requester.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Bookmark updated successfully")
	return updated, nil
}

// buildUpdateFields validates a patch and returns its plain fields along
// with the parsed share list, which is nil when the patch carries none.
// Sharing fields depend on the stored document and are resolved after the
// fetch.
func buildUpdateFields(patch models.BookmarkPatch) (bson.M, []primitive.ObjectID, error) {
	updateFields := bson.M{}

	if patch.URL != nil {
		url := strings.TrimSpace(*patch.URL)
		if url == "" {
			return nil, nil, apperrors.InvalidArgument("URL cannot be empty")
		}
		updateFields["url"] = url
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, nil, apperrors.InvalidArgument("Title cannot be empty")
		}
		updateFields["title"] = title
	}
	if patch.Description != nil {
		updateFields["description"] = *patch.Description
	}
	if patch.Favicon != nil {
		updateFields["favicon"] = *patch.Favicon
	}
	if patch.Tags != nil {
		updateFields["tags"] = utils.NormalizeTags(*patch.Tags)
	}
	if patch.Visibility != nil && !patch.Visibility.Valid() {
		return nil, nil, apperrors.InvalidArgument("Invalid visibility value")
	}

	var sharedWith []primitive.ObjectID
	if patch.SharedWith != nil {
		ids, err := parseShareList(*patch.SharedWith)
		if err != nil {
			return nil, nil, err
		}
		sharedWith = ids
	}

	if len(updateFields) == 0 && patch.Visibility == nil && patch.SharedWith == nil {
		return nil, nil, apperrors.InvalidArgument("no valid fields provided for update")
	}
	return updateFields, sharedWith, nil
}

func (s *bookmarkServiceImpl) DeleteBookmark(ctx context.Context, requester *primitive.ObjectID, bookmarkID primitive.ObjectID) error {
	if requester == nil {
		return apperrors.Unauthorized("authentication required")
	}
	log.Debug().Str("userID", requester.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Attempting to delete bookmark")

	if _, err := s.fetchWritable(ctx, requester, bookmarkID, "delete"); err != nil {
		return err
	}

	if err := s.bookmarkRepo.DeleteByID(ctx, bookmarkID); err != nil {
		log.Error().Err(err).Str("bookmarkID", bookmarkID.Hex()).Str("userID", requester.Hex()).Msg("Error deleting bookmark")
		return storeError(err, "failed to delete bookmark")
	}

	metrics.BookmarkDeletedTotal.Inc()
	log.Info().Str("userID", requester.Hex()).Str("bookmarkID", bookmarkID.Hex()).Msg("Bookmark deleted successfully")
	return nil
}

func (s *bookmarkServiceImpl) UpdateSharing(ctx context.Context, requester *primitive.ObjectID, bookmarkID primitive.ObjectID, update models.SharingUpdate) (*models.SharingResult, error) {
	if requester == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}
	if !update.Visibility.Valid() {
		return nil, apperrors.InvalidArgument("Invalid visibility value")
	}
	if update.Visibility == models.VisibilitySelected && update.SharedWith == nil {
		return nil, apperrors.InvalidArgument("sharedWith array is required for selected visibility")
	}
	shareList, err := resolveShareList(update.Visibility, update.SharedWith, nil)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("userID", requester.Hex()).Str("bookmarkID", bookmarkID.Hex()).Str("visibility", string(update.Visibility)).Msg("Attempting to update sharing settings")

	if _, err := s.fetchWritable(ctx, requester, bookmarkID, "share"); err != nil {
		return nil, err
	}

	updated, err := s.bookmarkRepo.UpdateByID(ctx, bookmarkID, bson.M{
		"visibility": update.Visibility,
		"sharedWith": shareList,
		"updatedAt":  s.now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("bookmarkID", bookmarkID.Hex()).Str("userID", requester.Hex()).Msg("Error updating sharing settings")
		return nil, storeError(err, "failed to update sharing settings")
	}

	metrics.SharingUpdatedTotal.WithLabelValues(string(updated.Visibility)).Inc()
	log.Info().Str("userID", requester.Hex()).Str("bookmarkID", bookmarkID.Hex()).Str("visibility", string(updated.Visibility)).Int("sharedWith", len(updated.SharedWith)).Msg("Sharing settings updated successfully")

	sharedWith := updated.SharedWith
	if sharedWith == nil {
		sharedWith = []primitive.ObjectID{}
	}
	return &models.SharingResult{ID: updated.ID, Visibility: updated.Visibility, SharedWith: sharedWith}, nil
}

// resolveShareList returns the share list to store for visibility. Anything
// but "selected" stores an empty list. For "selected", a nil raw list keeps
// current.
func resolveShareList(visibility models.Visibility, raw *[]string, current []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if visibility != models.VisibilitySelected || raw == nil {
		return shareListFor(visibility, current), nil
	}
	ids, err := parseShareList(*raw)
	if err != nil {
		return nil, err
	}
	return shareListFor(visibility, ids), nil
}

func parseShareList(raw []string) ([]primitive.ObjectID, error) {
	ids, err := utils.ParseObjectIDs(raw)
	if err != nil {
		return nil, apperrors.InvalidArgument("sharedWith must be a list of user IDs")
	}
	if ids == nil {
		ids = []primitive.ObjectID{}
	}
	return ids, nil
}

// shareListFor never returns nil, so the stored field is always an array.
func shareListFor(visibility models.Visibility, ids []primitive.ObjectID) []primitive.ObjectID {
	if visibility != models.VisibilitySelected || ids == nil {
		return []primitive.ObjectID{}
	}
	return ids
}

func (s *bookmarkServiceImpl) fetch(ctx context.Context, bookmarkID primitive.ObjectID) (*models.Bookmark, error) {
	bm, err := s.bookmarkRepo.FindByID(ctx, bookmarkID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Warn().Str("bookmarkID", bookmarkID.Hex()).Msg("Bookmark not found")
		} else {
			log.Error().Err(err).Str("bookmarkID", bookmarkID.Hex()).Msg("Error finding bookmark by ID")
		}
		return nil, storeError(err, "failed to retrieve bookmark")
	}
	return bm, nil
}

// fetchWritable loads the bookmark and checks the requester owns it.
func (s *bookmarkServiceImpl) fetchWritable(ctx context.Context, requester *primitive.ObjectID, bookmarkID primitive.ObjectID, operation string) (*models.Bookmark, error) {
	bm, err := s.fetch(ctx, bookmarkID)
	if err != nil {
		return nil, err
	}
	if !policy.CanWrite(bm, requester) {
		metrics.AccessDeniedTotal.WithLabelValues(operation).Inc()
		log.Warn().Str("userID", requesterField(requester)).Str("bookmarkID", bookmarkID.Hex()).Str("operation", operation).Msg("Requester does not own bookmark")
		return nil, apperrors.Forbidden("Not authorized to " + operation + " this bookmark")
	}
	return bm, nil
}

func storeError(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Bookmark not found")
	}
	return apperrors.Internal(msg, err)
}
