package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sharemark/internal/models"
	"sharemark/internal/policy"
)

// MemoryStore is an in-process BookmarkRepository and TagRepository used by
// unit tests of the service and HTTP layers.
type MemoryStore struct {
	mu    sync.RWMutex
	seq   int
	order map[primitive.ObjectID]int
	docs  map[primitive.ObjectID]models.Bookmark

	// FailWith, when set, is returned by every call.
	FailWith error
}

var (
	_ BookmarkRepository = (*MemoryStore)(nil)
	_ TagRepository      = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		order: make(map[primitive.ObjectID]int),
		docs:  make(map[primitive.ObjectID]models.Bookmark),
	}
}

func (m *MemoryStore) EnsureIndexes(ctx context.Context) error {
	return m.FailWith
}

func (m *MemoryStore) Insert(ctx context.Context, bm *models.Bookmark) (*models.Bookmark, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if bm.ID.IsZero() {
		bm.ID = primitive.NewObjectID()
	}
	m.seq++
	m.order[bm.ID] = m.seq
	m.docs[bm.ID] = cloneBookmark(*bm)
	return bm, nil
}

func (m *MemoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bookmark, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	bm, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneBookmark(bm)
	return &out, nil
}

func (m *MemoryStore) FindMany(ctx context.Context, q models.BookmarkQuery) ([]models.Bookmark, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Bookmark{}
	for _, bm := range m.docs {
		bm := bm
		if !policy.CanRead(&bm, q.Requester) {
			continue
		}
		if q.Tag != "" && !containsTag(bm.Tags, q.Tag) {
			continue
		}
		if q.Search != "" && !matchesSearch(bm, q.Search) {
			continue
		}
		out = append(out, cloneBookmark(bm))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return m.order[out[i].ID] > m.order[out[j].ID]
	})
	return out, nil
}

func (m *MemoryStore) UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Bookmark, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	bm, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated, err := applySet(bm, fields)
	if err != nil {
		return nil, err
	}
	m.docs[id] = updated
	out := cloneBookmark(updated)
	return &out, nil
}

func (m *MemoryStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	delete(m.order, id)
	return nil
}

func (m *MemoryStore) FindByTag(ctx context.Context, tag string) ([]models.Bookmark, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Bookmark{}
	for _, bm := range m.docs {
		if containsTag(bm.Tags, tag) {
			out = append(out, cloneBookmark(bm))
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.order[out[i].ID] < m.order[out[j].ID] })
	return out, nil
}

func (m *MemoryStore) SetTags(ctx context.Context, bookmarkID primitive.ObjectID, tags []string, updatedAt time.Time) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	bm, ok := m.docs[bookmarkID]
	if !ok {
		return ErrNotFound
	}
	bm.Tags = append([]string{}, tags...)
	bm.UpdatedAt = updatedAt
	m.docs[bookmarkID] = bm
	return nil
}

func (m *MemoryStore) PullFromAll(ctx context.Context, tag string, updatedAt time.Time) (int64, error) {
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var modified int64
	for id, bm := range m.docs {
		if !containsTag(bm.Tags, tag) {
			continue
		}
		kept := make([]string, 0, len(bm.Tags))
		for _, t := range bm.Tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		bm.Tags = kept
		bm.UpdatedAt = updatedAt
		m.docs[id] = bm
		modified++
	}
	return modified, nil
}

func (m *MemoryStore) CountByName(ctx context.Context) ([]models.TagCount, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := map[string]int{}
	for _, bm := range m.docs {
		for _, t := range bm.Tags {
			counts[t]++
		}
	}
	out := make([]models.TagCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, models.TagCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func matchesSearch(bm models.Bookmark, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(bm.Title), needle) ||
		strings.Contains(strings.ToLower(bm.URL), needle) ||
		strings.Contains(strings.ToLower(bm.Description), needle) {
		return true
	}
	for _, t := range bm.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// applySet mimics a $set by round-tripping the document through BSON.
func applySet(bm models.Bookmark, fields bson.M) (models.Bookmark, error) {
	raw, err := bson.Marshal(bm)
	if err != nil {
		return bm, errors.Wrap(err, "failed to encode bookmark")
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return bm, errors.Wrap(err, "failed to decode bookmark")
	}
	for k, v := range fields {
		doc[k] = v
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return bm, errors.Wrap(err, "failed to encode update")
	}
	var out models.Bookmark
	if err := bson.Unmarshal(raw, &out); err != nil {
		return bm, errors.Wrap(err, "failed to apply update")
	}
	return out, nil
}

func cloneBookmark(bm models.Bookmark) models.Bookmark {
	out := bm
	if bm.Tags != nil {
		out.Tags = append([]string{}, bm.Tags...)
	}
	if bm.SharedWith != nil {
		out.SharedWith = append([]primitive.ObjectID{}, bm.SharedWith...)
	}
	return out
}
