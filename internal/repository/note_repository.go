package repository

import (
	"context"
	"errors"
	"fmt"

	"notekeeper-server/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Physical collections backing the note lifecycle. A note id lives in
// exactly one of them at any time.
const (
	CollectionActive   = "notes_active"
	CollectionArchived = "notes_archived"
	CollectionTrashed  = "notes_trashed"
)

// ErrNoteNotFound covers both a genuinely missing id and an id owned by
// another user: every query filters by owner, so the two cases are
// indistinguishable on purpose.
var ErrNoteNotFound = errors.New("note not found")

type NoteRepository interface {
	Insert(ctx context.Context, note *domain.Note) error
	FindByID(ctx context.Context, ownerID, id string) (*domain.Note, error)
	List(ctx context.Context, ownerID string) ([]*domain.Note, error)
	ListFavorites(ctx context.Context, ownerID string) ([]*domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, ownerID, id string) error
	FindMany(ctx context.Context, ownerID string, ids []string) ([]*domain.Note, error)
	DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error)
}

type noteRepository struct {
	coll *mongo.Collection
}

func NewNoteRepository(db *mongo.Database, collection string) NoteRepository {
	return &noteRepository{
		coll: db.Collection(collection),
	}
}

// Insert writes a note that already carries its id and timestamps, so it
// serves both note creation and the destination half of a move.
func (r *noteRepository) Insert(ctx context.Context, note *domain.Note) error {
	if _, err := r.coll.InsertOne(ctx, note); err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

func (r *noteRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Note, error) {
	var note domain.Note
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	return &note, nil
}

func (r *noteRepository) List(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *noteRepository) ListFavorites(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID, "is_favorite": true})
}

func (r *noteRepository) FindMany(ctx context.Context, ownerID string, ids []string) ([]*domain.Note, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}, "owner_id": ownerID})
}

func (r *noteRepository) find(ctx context.Context, filter bson.M) ([]*domain.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notes := []*domain.Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}

	return notes, nil
}

func (r *noteRepository) Update(ctx context.Context, note *domain.Note) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": note.ID, "owner_id": note.OwnerID}, note)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *noteRepository) DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}, "owner_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete notes: %w", err)
	}
	return res.DeletedCount, nil
}
