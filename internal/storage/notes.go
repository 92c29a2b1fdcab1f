package storage

import (
	"context"
	"errors"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoteRepository persists notes and their comments through gorm.
type NoteRepository struct {
	db *gorm.DB
}

// NewNoteRepository constructs a note repository on the shared handle.
func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a new note row. New notes carry no comments yet.
func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	record := noteToRecord(note)
	return r.db.WithContext(ctx).Create(&record).Error
}

// FindByID loads one note with its comments or reports not-found.
func (r *NoteRepository) FindByID(ctx context.Context, id domain.NoteID) (*domain.Note, error) {
	var record noteRecord
	err := r.db.WithContext(ctx).Where("id = ?", id.String()).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("note")
	}
	if err != nil {
		return nil, err
	}
	comments, err := r.commentsFor(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	return recordToNote(record, comments), nil
}

// FindByBoard returns every note on the board, comments included.
func (r *NoteRepository) FindByBoard(ctx context.Context, boardID domain.BoardID) ([]*domain.Note, error) {
	var records []noteRecord
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID.String()).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	notes := make([]*domain.Note, 0, len(records))
	for _, record := range records {
		comments, err := r.commentsFor(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		notes = append(notes, recordToNote(record, comments))
	}
	return notes, nil
}

// Update rewrites the note row and inserts comments not yet persisted.
// Comments are append-only, so an upsert that ignores conflicts suffices.
func (r *NoteRepository) Update(ctx context.Context, note *domain.Note) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := noteToRecord(note)
		result := tx.Model(&noteRecord{}).
			Where("id = ?", record.ID).
			Updates(map[string]interface{}{
				"title":      record.Title,
				"content":    record.Content,
				"x":          record.X,
				"y":          record.Y,
				"updated_by": record.UpdatedBy,
				"version":    record.Version,
				"updated_at": record.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("note")
		}
		for _, comment := range note.Comments {
			commentRow := commentRecord{
				ID:        comment.ID,
				NoteID:    record.ID,
				Author:    comment.Author,
				Text:      comment.Text,
				CreatedAt: comment.CreatedAt,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&commentRow).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the note and cascades to its comments.
func (r *NoteRepository) Delete(ctx context.Context, id domain.NoteID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", id.String()).Delete(&commentRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id.String()).Delete(&noteRecord{}).Error
	})
}

func (r *NoteRepository) commentsFor(ctx context.Context, noteID string) ([]domain.Comment, error) {
	var records []commentRecord
	if err := r.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	comments := make([]domain.Comment, 0, len(records))
	for _, record := range records {
		comments = append(comments, domain.Comment{
			ID:        record.ID,
			Author:    record.Author,
			Text:      record.Text,
			CreatedAt: record.CreatedAt,
		})
	}
	return comments, nil
}

func noteToRecord(note *domain.Note) noteRecord {
	return noteRecord{
		ID:        note.ID.String(),
		BoardID:   note.BoardID.String(),
		Title:     note.Title,
		Content:   note.Content,
		X:         note.Position.X,
		Y:         note.Position.Y,
		UpdatedBy: note.UpdatedBy,
		Version:   note.Version,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

func recordToNote(record noteRecord, comments []domain.Comment) *domain.Note {
	return &domain.Note{
		ID:        domain.NoteID(record.ID),
		BoardID:   domain.BoardID(record.BoardID),
		Title:     record.Title,
		Content:   record.Content,
		Position:  domain.Position{X: record.X, Y: record.Y},
		UpdatedBy: record.UpdatedBy,
		Comments:  comments,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		Version:   record.Version,
	}
}
