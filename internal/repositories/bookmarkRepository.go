package repositories

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sharemark/internal/database"
	"sharemark/internal/models"
	"sharemark/internal/policy"
	"sharemark/internal/utils"
)

const bookmarksCollection = "bookmarks"

var ErrNotFound = errors.New("document not found")

type BookmarkRepository interface {
	Insert(ctx context.Context, bm *models.Bookmark) (*models.Bookmark, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bookmark, error)
	FindMany(ctx context.Context, q models.BookmarkQuery) ([]models.Bookmark, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Bookmark, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type bookmarkRepository struct {
	db database.Service
}

func NewBookmarkRepository(db database.Service) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(bookmarksCollection)
}

func (r *bookmarkRepository) EnsureIndexes(ctx context.Context) error {
	return utils.CreateIndexes(ctx, r.collection(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
		{Keys: bson.D{{Key: "visibility", Value: 1}, {Key: "sharedWith", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	})
}

func (r *bookmarkRepository) Insert(ctx context.Context, bm *models.Bookmark) (*models.Bookmark, error) {
	qt := utils.NewQueryTimer("insert", "bookmark")
	defer qt.Observe()

	if bm.ID.IsZero() {
		bm.ID = primitive.NewObjectID()
	}
	if _, err := r.collection().InsertOne(ctx, bm); err != nil {
		qt.Fail()
		return nil, errors.Wrap(err, "failed to add bookmark")
	}
	return bm, nil
}

func (r *bookmarkRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Bookmark, error) {
	qt := utils.NewQueryTimer("findById", "bookmark")
	defer qt.Observe()

	var bm models.Bookmark
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&bm)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		qt.Fail()
		return nil, errors.Wrap(err, "failed to retrieve bookmark")
	}
	return &bm, nil
}

func (r *bookmarkRepository) FindMany(ctx context.Context, q models.BookmarkQuery) ([]models.Bookmark, error) {
	qt := utils.NewQueryTimer("find", "bookmark")
	defer qt.Observe()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection().Find(ctx, BuildListFilter(q), opts)
	if err != nil {
		qt.Fail()
		return nil, errors.Wrap(err, "failed to retrieve bookmarks")
	}
	defer cursor.Close(ctx)

	bookmarks := []models.Bookmark{}
	if err := cursor.All(ctx, &bookmarks); err != nil {
		qt.Fail()
		return nil, errors.Wrap(err, "error decoding bookmarks")
	}
	return bookmarks, nil
}

func (r *bookmarkRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Bookmark, error) {
	qt := utils.NewQueryTimer("updateById", "bookmark")
	defer qt.Observe()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var bm models.Bookmark
	err := r.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&bm)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		qt.Fail()
		return nil, errors.Wrap(err, "failed to update bookmark")
	}
	return &bm, nil
}

func (r *bookmarkRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	qt := utils.NewQueryTimer("deleteById", "bookmark")
	defer qt.Observe()

	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		qt.Fail()
		return errors.Wrap(err, "failed to delete bookmark")
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// BuildListFilter combines the visibility filter for the requester with the
// optional tag and search narrowing.
func BuildListFilter(q models.BookmarkQuery) bson.M {
	conditions := bson.A{policy.ReadFilter(q.Requester)}

	if q.Tag != "" {
		conditions = append(conditions, bson.M{"tags": q.Tag})
	}
	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		conditions = append(conditions, bson.M{"$or": bson.A{
			bson.M{"title": pattern},
			bson.M{"url": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}})
	}

	if len(conditions) == 1 {
		return conditions[0].(bson.M)
	}
	return bson.M{"$and": conditions}
}
