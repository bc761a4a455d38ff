package domain

import "time"

// DefaultColor is applied when a note is created without an explicit color.
const DefaultColor = "#FFD700"

// Note is the single document shape shared by the active, archived and
// trashed collections. ID, OwnerID and CreatedAt survive every move between
// collections; ArchivedAt and DeletedAt are only set while the note lives in
// the corresponding collection.
type Note struct {
	ID         string     `bson:"_id" json:"id"`
	OwnerID    string     `bson:"owner_id" json:"owner_id"`
	Title      string     `bson:"title" json:"title"`
	Body       string     `bson:"body" json:"body"`
	Color      string     `bson:"color" json:"color"`
	IsFavorite bool       `bson:"is_favorite" json:"is_favorite"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
	ArchivedAt *time.Time `bson:"archived_at,omitempty" json:"archived_at,omitempty"`
	DeletedAt  *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

type CreateNoteRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
	Color string `json:"color"`
}

type UpdateNoteRequest struct {
	Title *string `json:"title" validate:"omitempty,min=1"`
	Body  *string `json:"body" validate:"omitempty,min=1"`
	Color *string `json:"color"`
}

type BatchNoteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type BatchFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BatchResult reports per-id outcomes of a batch operation. One id failing
// never rolls back another id's success.
type BatchResult struct {
	Succeeded int            `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}
