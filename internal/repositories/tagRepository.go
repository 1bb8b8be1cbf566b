package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"sharemark/internal/database"
	"sharemark/internal/models"
	"sharemark/internal/utils"
)

// TagRepository runs tag-wide operations over the tags array embedded in
// bookmark documents.
type TagRepository interface {
	FindByTag(ctx context.Context, tag string) ([]models.Bookmark, error)
	SetTags(ctx context.Context, bookmarkID primitive.ObjectID, tags []string, updatedAt time.Time) error
	PullFromAll(ctx context.Context, tag string, updatedAt time.Time) (int64, error)
	CountByName(ctx context.Context) ([]models.TagCount, error)
}

type tagRepository struct {
	db database.Service
}

func NewTagRepository(db database.Service) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(bookmarksCollection)
}

func (r *tagRepository) FindByTag(ctx context.Context, tag string) ([]models.Bookmark, error) {
	qt := utils.NewQueryTimer("findByTag", "tag")
	defer qt.Observe()

	cursor, err := r.collection().Find(ctx, bson.M{"tags": tag})
	if err != nil {
		qt.Fail()
		return nil, errors.Wrap(err, "failed to find bookmarks by tag")
	}
	defer cursor.Close(ctx)

	bookmarks := []models.Bookmark{}
	if err := cursor.All(ctx, &bookmarks); err != nil {
		qt.Fail()
		return nil, errors.Wrap(err, "error decoding bookmarks")
	}
	return bookmarks, nil
}

func (r *tagRepository) SetTags(ctx context.Context, bookmarkID primitive.ObjectID, tags []string, updatedAt time.Time) error {
	qt := utils.NewQueryTimer("setTags", "tag")
	defer qt.Observe()

	update := bson.M{"$set": bson.M{"tags": tags, "updatedAt": updatedAt}}
	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": bookmarkID}, update)
	if err != nil {
		qt.Fail()
		return errors.Wrap(err, "failed to update bookmark tags")
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullFromAll removes tag from every bookmark in a single UpdateMany and
// returns the number of modified documents.
func (r *tagRepository) PullFromAll(ctx context.Context, tag string, updatedAt time.Time) (int64, error) {
	qt := utils.NewQueryTimer("pullFromAll", "tag")
	defer qt.Observe()

	update := bson.M{
		"$pull": bson.M{"tags": tag},
		"$set":  bson.M{"updatedAt": updatedAt},
	}
	result, err := r.collection().UpdateMany(ctx, bson.M{"tags": tag}, update)
	if err != nil {
		qt.Fail()
		return 0, errors.Wrap(err, "failed to remove tag")
	}
	return result.ModifiedCount, nil
}

func (r *tagRepository) CountByName(ctx context.Context) ([]models.TagCount, error) {
	qt := utils.NewQueryTimer("countByName", "tag")
	defer qt.Observe()

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$tags"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		qt.Fail()
		return nil, errors.Wrap(err, "failed to aggregate tags")
	}
	defer cursor.Close(ctx)

	tags := []models.TagCount{}
	if err := cursor.All(ctx, &tags); err != nil {
		qt.Fail()
		return nil, errors.Wrap(err, "error decoding tags")
	}
	return tags, nil
}
