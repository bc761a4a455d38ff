package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"notekeeper-server/internal/domain"
	"notekeeper-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NoteService drives the note lifecycle across the active, archived and
// trashed collections. Every move preserves the note id, owner and creation
// timestamp; the destination insert always happens before the source delete
// so a half-finished move can duplicate a note but never lose one.
type NoteService struct {
	active   repository.NoteRepository
	archived repository.NoteRepository
	trashed  repository.NoteRepository
	logger   *zap.Logger
}

func NewNoteService(active, archived, trashed repository.NoteRepository, logger *zap.Logger) *NoteService {
	return &NoteService{
		active:   active,
		archived: archived,
		trashed:  trashed,
		logger:   logger,
	}
}

func (s *NoteService) Create(ctx context.Context, ownerID string, req *domain.CreateNoteRequest) (*domain.Note, error) {
	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if body == "" {
		return nil, &ValidationError{Field: "body", Reason: "must not be empty"}
	}

	color := req.Color
	if color == "" {
		color = domain.DefaultColor
	}

	now := time.Now()
	note := &domain.Note{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		Title:      title,
		Body:       body,
		Color:      color,
		IsFavorite: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.active.Insert(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// Get looks the note up wherever it currently lives.
func (s *NoteService) Get(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	for _, repo := range []repository.NoteRepository{s.active, s.archived, s.trashed} {
		note, err := repo.FindByID(ctx, ownerID, noteID)
		if err == nil {
			return note, nil
		}
		if !errors.Is(err, repository.ErrNoteNotFound) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

func (s *NoteService) ListActive(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	return s.active.List(ctx, ownerID)
}

func (s *NoteService) ListFavorites(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	return s.active.ListFavorites(ctx, ownerID)
}

func (s *NoteService) ListArchived(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	return s.archived.List(ctx, ownerID)
}

func (s *NoteService) ListTrashed(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	return s.trashed.List(ctx, ownerID)
}

// Update applies a partial edit to an active note. Archived and trashed
// notes are immutable until restored.
func (s *NoteService) Update(ctx context.Context, ownerID, noteID string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	note, err := s.active.FindByID(ctx, ownerID, noteID)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		note.Title = title
	}
	if req.Body != nil {
		body := strings.TrimSpace(*req.Body)
		if body == "" {
			return nil, &ValidationError{Field: "body", Reason: "must not be empty"}
		}
		note.Body = body
	}
	if req.Color != nil {
		// An explicit empty color means "back to the default", same as
		// creating without one.
		color := *req.Color
		if color == "" {
			color = domain.DefaultColor
		}
		note.Color = color
	}

	note.UpdatedAt = time.Now()

	if err := s.active.Update(ctx, note); err != nil {
		return nil, s.mapRepoErr(err)
	}

	return note, nil
}

// ToggleFavorite flips the favorite flag in place. The flag only exists on
// active notes, so an archived or trashed id reads as not found.
func (s *NoteService) ToggleFavorite(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	note, err := s.active.FindByID(ctx, ownerID, noteID)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}

	note.IsFavorite = !note.IsFavorite
	note.UpdatedAt = time.Now()

	if err := s.active.Update(ctx, note); err != nil {
		return nil, s.mapRepoErr(err)
	}

	return note, nil
}

// Unfavorite clears the favorite flag. Clearing an already-unfavorited note
// succeeds, which keeps the batch variant idempotent per id.
func (s *NoteService) Unfavorite(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	note, err := s.active.FindByID(ctx, ownerID, noteID)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}

	if note.IsFavorite {
		note.IsFavorite = false
		note.UpdatedAt = time.Now()
		if err := s.active.Update(ctx, note); err != nil {
			return nil, s.mapRepoErr(err)
		}
	}

	return note, nil
}

func (s *NoteService) Archive(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	return s.move(ctx, s.active, s.archived, repository.CollectionActive, repository.CollectionArchived, ownerID, noteID, func(n *domain.Note) {
		now := time.Now()
		n.ArchivedAt = &now
		n.IsFavorite = false
	})
}

// Trash moves an active note to the trash.
func (s *NoteService) Trash(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	return s.move(ctx, s.active, s.trashed, repository.CollectionActive, repository.CollectionTrashed, ownerID, noteID, func(n *domain.Note) {
		now := time.Now()
		n.DeletedAt = &now
		n.IsFavorite = false
	})
}

// TrashArchived moves an archived note to the trash. This is the only exit
// toward permanent deletion for archived notes; archiving alone never leads
// to data loss.
func (s *NoteService) TrashArchived(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	return s.move(ctx, s.archived, s.trashed, repository.CollectionArchived, repository.CollectionTrashed, ownerID, noteID, func(n *domain.Note) {
		now := time.Now()
		n.DeletedAt = &now
		n.ArchivedAt = nil
	})
}

// Unarchive moves an archived note back to active.
func (s *NoteService) Unarchive(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	return s.move(ctx, s.archived, s.active, repository.CollectionArchived, repository.CollectionActive, ownerID, noteID, func(n *domain.Note) {
		n.ArchivedAt = nil
		n.IsFavorite = false
	})
}

// Restore moves a trashed note back to active, keeping its original id and
// creation timestamp.
func (s *NoteService) Restore(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	return s.move(ctx, s.trashed, s.active, repository.CollectionTrashed, repository.CollectionActive, ownerID, noteID, func(n *domain.Note) {
		n.DeletedAt = nil
		n.IsFavorite = false
	})
}

// Destroy permanently deletes a trashed note. Terminal and irreversible.
func (s *NoteService) Destroy(ctx context.Context, ownerID, noteID string) error {
	if err := s.trashed.Delete(ctx, ownerID, noteID); err != nil {
		return s.mapRepoErr(err)
	}
	return nil
}

// move is the two-phase transition shared by every collection change:
// fetch and validate under owner scope, stamp the destination record, insert
// into the destination, then delete from the source. If the delete fails
// after the insert succeeded the note exists twice; that is logged for
// reconciliation and the move is still reported as a success, because
// duplication is recoverable and loss is not.
func (s *NoteService) move(ctx context.Context, src, dst repository.NoteRepository, srcName, dstName, ownerID, noteID string, stamp func(*domain.Note)) (*domain.Note, error) {
	note, err := src.FindByID(ctx, ownerID, noteID)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}

	moved := *note
	stamp(&moved)

	if err := dst.Insert(ctx, &moved); err != nil {
		return nil, err
	}

	if err := src.Delete(ctx, ownerID, noteID); err != nil {
		s.logger.Error("note move left a duplicate behind, reconciliation required",
			zap.String("note_id", noteID),
			zap.String("owner_id", ownerID),
			zap.String("from", srcName),
			zap.String("to", dstName),
			zap.Error(err),
		)
	}

	return &moved, nil
}

func (s *NoteService) ArchiveMany(ctx context.Context, ownerID string, ids []string) (*domain.BatchResult, error) {
	return s.batch(ids, func(id string) error {
		_, err := s.Archive(ctx, ownerID, id)
		return err
	})
}

func (s *NoteService) TrashMany(ctx context.Context, ownerID string, ids []string) (*domain.BatchResult, error) {
	return s.batch(ids, func(id string) error {
		_, err := s.Trash(ctx, ownerID, id)
		return err
	})
}

func (s *NoteService) RestoreMany(ctx context.Context, ownerID string, ids []string) (*domain.BatchResult, error) {
	return s.batch(ids, func(id string) error {
		_, err := s.Restore(ctx, ownerID, id)
		return err
	})
}

// DestroyMany permanently deletes every trashed id owned by the caller in
// one filtered delete; ids that were not in the caller's trash are reported
// individually.
func (s *NoteService) DestroyMany(ctx context.Context, ownerID string, ids []string) (*domain.BatchResult, error) {
	if len(ids) == 0 {
		return nil, &ValidationError{Field: "ids", Reason: "must not be empty"}
	}

	found, err := s.trashed.FindMany(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(found))
	for _, n := range found {
		existing[n.ID] = true
	}

	deleted, err := s.trashed.DeleteMany(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}

	result := &domain.BatchResult{Succeeded: int(deleted), Failed: []domain.BatchFailure{}}
	for _, id := range ids {
		if !existing[id] {
			result.Failed = append(result.Failed, domain.BatchFailure{ID: id, Reason: ErrNotFound.Error()})
		}
	}

	return result, nil
}

func (s *NoteService) UnfavoriteMany(ctx context.Context, ownerID string, ids []string) (*domain.BatchResult, error) {
	return s.batch(ids, func(id string) error {
		_, err := s.Unfavorite(ctx, ownerID, id)
		return err
	})
}

// batch applies op to each id independently. Ids are processed in order and
// one id's failure neither stops nor rolls back the others.
func (s *NoteService) batch(ids []string, op func(id string) error) (*domain.BatchResult, error) {
	if len(ids) == 0 {
		return nil, &ValidationError{Field: "ids", Reason: "must not be empty"}
	}

	result := &domain.BatchResult{Failed: []domain.BatchFailure{}}
	for _, id := range ids {
		if err := op(id); err != nil {
			result.Failed = append(result.Failed, domain.BatchFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded++
	}

	return result, nil
}

func (s *NoteService) mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNoteNotFound) {
		return ErrNotFound
	}
	return err
}
