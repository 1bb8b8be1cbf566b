package repositories

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sharemark/internal/database"
	"sharemark/internal/models"
	"sharemark/internal/utils"
)

const usersCollection = "users"

// UserRepository reads the user directory maintained by the account service.
type UserRepository interface {
	FindShareable(ctx context.Context, exclude primitive.ObjectID, search string) ([]models.ShareableUser, error)
}

type userRepository struct {
	db database.Service
}

func NewUserRepository(db database.Service) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindShareable(ctx context.Context, exclude primitive.ObjectID, search string) ([]models.ShareableUser, error) {
	qt := utils.NewQueryTimer("findShareable", "user")
	defer qt.Observe()

	filter := bson.M{"_id": bson.M{"$ne": exclude}}
	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = bson.A{bson.M{"username": pattern}, bson.M{"email": pattern}}
	}

	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "username": 1, "email": 1}).
		SetSort(bson.D{{Key: "username", Value: 1}})

	cursor, err := r.db.Database().Collection(usersCollection).Find(ctx, filter, opts)
	if err != nil {
		qt.Fail()
		return nil, errors.Wrap(err, "failed to retrieve users")
	}
	defer cursor.Close(ctx)

	users := []models.ShareableUser{}
	if err := cursor.All(ctx, &users); err != nil {
		qt.Fail()
		return nil, errors.Wrap(err, "error decoding users")
	}
	return users, nil
}
