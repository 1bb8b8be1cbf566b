package utils

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ParseObjectIDs parses hex ObjectID strings, dropping duplicates while
// keeping first-seen order.
func ParseObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, idStr := range ids {
		objID, err := primitive.ObjectIDFromHex(strings.TrimSpace(idStr))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid id %q", idStr)
		}
		if _, dup := seen[objID]; dup {
			continue
		}
		seen[objID] = struct{}{}
		objectIDs = append(objectIDs, objID)
	}
	return objectIDs, nil
}

// NormalizeTags trims tags, drops empty entries and removes duplicates while
// keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// CreateIndexes creates the given indexes on collection.
func CreateIndexes(ctx context.Context, collection *mongo.Collection, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := collection.Indexes().CreateMany(ctx, models); err != nil {
		return errors.Wrapf(err, "failed to create indexes on %s", collection.Name())
	}
	return nil
}
