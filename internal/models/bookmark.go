package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityPublic   Visibility = "public"
	VisibilitySelected Visibility = "selected"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityPublic, VisibilitySelected:
		return true
	}
	return false
}

type Bookmark struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	URL         string               `json:"url" bson:"url"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	Tags        []string             `json:"tags" bson:"tags"`
	Favicon     string               `json:"favicon,omitempty" bson:"favicon,omitempty"`
	Owner       primitive.ObjectID   `json:"owner,omitempty" bson:"owner,omitempty"`
	Visibility  Visibility           `json:"visibility" bson:"visibility"`
	SharedWith  []primitive.ObjectID `json:"sharedWith" bson:"sharedWith"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// HasOwner is false for documents written before ownership existed.
func (b *Bookmark) HasOwner() bool {
	return !b.Owner.IsZero()
}

// BookmarkDraft is one bookmark in a create request. SharedWith holds raw
// user ids; they are validated by the service.
type BookmarkDraft struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Favicon     string     `json:"favicon"`
	Visibility  Visibility `json:"visibility"`
	SharedWith  []string   `json:"sharedWith"`
}

// DraftPayload accepts either a single draft object or an array of drafts.
type DraftPayload struct {
	Drafts []BookmarkDraft
	Many   bool
}

var ErrEmptyPayload = errors.New("request body must be a bookmark object or an array of bookmarks")

func (p *DraftPayload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrEmptyPayload
	}

	switch trimmed[0] {
	case '[':
		var drafts []BookmarkDraft
		if err := json.Unmarshal(trimmed, &drafts); err != nil {
			return err
		}
		p.Drafts = drafts
		p.Many = true
	case '{':
		var draft BookmarkDraft
		if err := json.Unmarshal(trimmed, &draft); err != nil {
			return err
		}
		p.Drafts = []BookmarkDraft{draft}
		p.Many = false
	default:
		return ErrEmptyPayload
	}
	return nil
}

// BookmarkPatch carries the owner-writable fields of an update. Nil means
// "leave unchanged".
type BookmarkPatch struct {
	URL         *string     `json:"url,omitempty"`
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Tags        *[]string   `json:"tags,omitempty"`
	Favicon     *string     `json:"favicon,omitempty"`
	Visibility  *Visibility `json:"visibility,omitempty"`
	SharedWith  *[]string   `json:"sharedWith,omitempty"`
}

type SharingUpdate struct {
	Visibility Visibility `json:"visibility"`
	SharedWith *[]string  `json:"sharedWith,omitempty"`
}

type SharingResult struct {
	ID         primitive.ObjectID   `json:"id"`
	Visibility Visibility           `json:"visibility"`
	SharedWith []primitive.ObjectID `json:"sharedWith"`
}

// CreateResult is the outcome of one draft in a create call.
type CreateResult struct {
	Index    int       `json:"index"`
	Bookmark *Bookmark `json:"bookmark,omitempty"`
	Error    string    `json:"error,omitempty"`
	Err      error     `json:"-"`
}

// BookmarkQuery narrows a listing. Requester nil means anonymous.
type BookmarkQuery struct {
	Requester *primitive.ObjectID
	Tag       string
	Search    string
}
