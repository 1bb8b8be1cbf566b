package models

type TagCount struct {
	Name  string `json:"name" bson:"_id"`
	Count int    `json:"count" bson:"count"`
}

type TagRenameRequest struct {
	NewName string `json:"newName"`
}

type TagMutationResult struct {
	Message  string `json:"message"`
	Modified int64  `json:"modified"`
}
