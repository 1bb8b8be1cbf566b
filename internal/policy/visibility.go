// Package policy decides who may read or modify a bookmark.
//
// Only ownership grants write access. Read access comes from ownership, a
// public visibility, or membership in the share list of a "selected"
// bookmark. ReadFilter expresses the same rule as a MongoDB filter so that
// listing returns exactly the documents CanRead would accept one by one.
package policy

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sharemark/internal/models"
)

// CanRead reports whether requester (nil for anonymous) may see bm.
func CanRead(bm *models.Bookmark, requester *primitive.ObjectID) bool {
	if bm.Visibility == models.VisibilityPublic {
		return true
	}
	if requester == nil {
		return false
	}
	if isOwner(bm, *requester) {
		return true
	}
	if bm.Visibility == models.VisibilitySelected {
		for _, id := range bm.SharedWith {
			if id == *requester {
				return true
			}
		}
	}
	return false
}

// CanWrite reports whether requester may modify or delete bm.
func CanWrite(bm *models.Bookmark, requester *primitive.ObjectID) bool {
	return requester != nil && isOwner(bm, *requester)
}

func isOwner(bm *models.Bookmark, userID primitive.ObjectID) bool {
	return bm.HasOwner() && !userID.IsZero() && bm.Owner == userID
}

// ReadFilter builds the listing filter for requester.
func ReadFilter(requester *primitive.ObjectID) bson.M {
	if requester == nil || requester.IsZero() {
		return bson.M{"visibility": models.VisibilityPublic}
	}
	return bson.M{
		"$or": bson.A{
			bson.M{"visibility": models.VisibilityPublic},
			bson.M{"owner": *requester},
			bson.M{"visibility": models.VisibilitySelected, "sharedWith": *requester},
		},
	}
}
