package storage

import (
	"context"
	"errors"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
	"gorm.io/gorm"
)

// BoardRepository persists boards through gorm.
type BoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository constructs a board repository on the shared handle.
func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Create inserts a new board row.
func (r *BoardRepository) Create(ctx context.Context, board *domain.Board) error {
	record := boardToRecord(board)
	return r.db.WithContext(ctx).Create(&record).Error
}

// FindByID loads one board or reports not-found.
func (r *BoardRepository) FindByID(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	var record boardRecord
	err := r.db.WithContext(ctx).Where("id = ?", id.String()).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("board")
	}
	if err != nil {
		return nil, err
	}
	return recordToBoard(record), nil
}

// FindAll returns every board ordered by creation time.
func (r *BoardRepository) FindAll(ctx context.Context) ([]*domain.Board, error) {
	var records []boardRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	boards := make([]*domain.Board, 0, len(records))
	for _, record := range records {
		boards = append(boards, recordToBoard(record))
	}
	return boards, nil
}

// Update rewrites the mutable board columns.
func (r *BoardRepository) Update(ctx context.Context, board *domain.Board) error {
	record := boardToRecord(board)
	result := r.db.WithContext(ctx).Model(&boardRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"name":        record.Name,
			"description": record.Description,
			"updated_at":  record.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("board")
	}
	return nil
}

// Delete removes the board row. Missing rows are not an error.
func (r *BoardRepository) Delete(ctx context.Context, id domain.BoardID) error {
	return r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&boardRecord{}).Error
}

func boardToRecord(board *domain.Board) boardRecord {
	return boardRecord{
		ID:          board.ID.String(),
		Name:        board.Name,
		Description: board.Description,
		OwnerID:     board.OwnerID.String(),
		CreatedAt:   board.CreatedAt,
		UpdatedAt:   board.UpdatedAt,
	}
}

func recordToBoard(record boardRecord) *domain.Board {
	return &domain.Board{
		ID:          domain.BoardID(record.ID),
		Name:        record.Name,
		Description: record.Description,
		OwnerID:     domain.UserID(record.OwnerID),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
