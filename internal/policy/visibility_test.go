package policy

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sharemark/internal/models"
)

// A small pool of users keeps collisions between owner, share list and
// requester frequent enough to exercise every branch.
var userPool = []primitive.ObjectID{
	primitive.NewObjectID(),
	primitive.NewObjectID(),
	primitive.NewObjectID(),
	primitive.NewObjectID(),
}

func genUserIndex() gopter.Gen {
	return gen.IntRange(-1, len(userPool)-1)
}

func user(idx int) *primitive.ObjectID {
	if idx < 0 {
		return nil
	}
	id := userPool[idx]
	return &id
}

func bookmarkFor(visibility models.Visibility, ownerIdx int, shared []int) *models.Bookmark {
	bm := &models.Bookmark{URL: "https://x.com", Title: "X", Visibility: visibility}
	if owner := user(ownerIdx); owner != nil {
		bm.Owner = *owner
	}
	for _, idx := range shared {
		if idx >= 0 {
			bm.SharedWith = append(bm.SharedWith, userPool[idx])
		}
	}
	return bm
}

func genVisibility() gopter.Gen {
	return gen.OneConstOf(models.VisibilityPrivate, models.VisibilityPublic, models.VisibilitySelected, models.Visibility(""))
}

func TestScenarioPrivateBookmark(t *testing.T) {
	u1, u2 := userPool[0], userPool[1]
	bm := &models.Bookmark{URL: "https://x.com", Title: "X", Visibility: models.VisibilityPrivate, Owner: u1}

	assert.False(t, CanRead(bm, &u2))
	assert.True(t, CanRead(bm, &u1))
	assert.False(t, CanRead(bm, nil))
}

func TestSelectedBookmark(t *testing.T) {
	owner, friend, stranger := userPool[0], userPool[1], userPool[2]
	bm := &models.Bookmark{Visibility: models.VisibilitySelected, Owner: owner, SharedWith: []primitive.ObjectID{friend}}

	assert.True(t, CanRead(bm, &owner))
	assert.True(t, CanRead(bm, &friend))
	assert.False(t, CanRead(bm, &stranger))
	assert.False(t, CanRead(bm, nil))
	assert.False(t, CanWrite(bm, &friend))
	assert.True(t, CanWrite(bm, &owner))
}

func TestOwnerlessBookmark(t *testing.T) {
	someone := userPool[0]
	zero := primitive.NilObjectID

	legacy := &models.Bookmark{URL: "https://old.example", Title: "old"}
	assert.False(t, CanRead(legacy, &someone))
	assert.False(t, CanWrite(legacy, &someone))
	assert.False(t, CanWrite(legacy, &zero))

	legacy.Visibility = models.VisibilityPublic
	assert.True(t, CanRead(legacy, nil))
	assert.False(t, CanWrite(legacy, &someone))
}

func TestReadFilterAnonymous(t *testing.T) {
	assert.Equal(t, bson.M{"visibility": models.VisibilityPublic}, ReadFilter(nil))
	zero := primitive.NilObjectID
	assert.Equal(t, bson.M{"visibility": models.VisibilityPublic}, ReadFilter(&zero))
}

func TestReadFilterAuthenticated(t *testing.T) {
	u := userPool[0]
	want := bson.M{
		"$or": bson.A{
			bson.M{"visibility": models.VisibilityPublic},
			bson.M{"owner": u},
			bson.M{"visibility": models.VisibilitySelected, "sharedWith": u},
		},
	}
	assert.Equal(t, want, ReadFilter(&u))
}

func TestPolicyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("public bookmarks are readable by anyone", prop.ForAll(
		func(ownerIdx, requesterIdx int, shared []int) bool {
			bm := bookmarkFor(models.VisibilityPublic, ownerIdx, shared)
			return CanRead(bm, user(requesterIdx))
		},
		genUserIndex(), genUserIndex(), gen.SliceOf(genUserIndex()),
	))

	properties.Property("write access is exactly ownership", prop.ForAll(
		func(visibility models.Visibility, ownerIdx, requesterIdx int, shared []int) bool {
			bm := bookmarkFor(visibility, ownerIdx, shared)
			requester := user(requesterIdx)
			isOwner := requester != nil && ownerIdx >= 0 && *requester == bm.Owner
			return CanWrite(bm, requester) == isOwner
		},
		genVisibility(), genUserIndex(), genUserIndex(), gen.SliceOf(genUserIndex()),
	))

	properties.Property("writers can always read", prop.ForAll(
		func(visibility models.Visibility, ownerIdx, requesterIdx int, shared []int) bool {
			bm := bookmarkFor(visibility, ownerIdx, shared)
			requester := user(requesterIdx)
			return !CanWrite(bm, requester) || CanRead(bm, requester)
		},
		genVisibility(), genUserIndex(), genUserIndex(), gen.SliceOf(genUserIndex()),
	))

	properties.Property("share lists only matter for selected visibility", prop.ForAll(
		func(visibility models.Visibility, ownerIdx, requesterIdx int, shared []int) bool {
			if visibility == models.VisibilitySelected {
				return true
			}
			with := bookmarkFor(visibility, ownerIdx, shared)
			without := bookmarkFor(visibility, ownerIdx, nil)
			requester := user(requesterIdx)
			return CanRead(with, requester) == CanRead(without, requester)
		},
		genVisibility(), genUserIndex(), genUserIndex(), gen.SliceOf(genUserIndex()),
	))

	properties.TestingRun(t)
}
