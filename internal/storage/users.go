package storage

import (
	"context"
	"errors"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository persists session users and their per-board roles.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a user repository on the shared handle.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Save upserts the user row and its role entries.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := userRecord{
			ID:           user.ID.String(),
			Name:         user.Name,
			ConnectionID: user.ConnectionID,
			ConnectedAt:  user.ConnectedAt,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&record).Error; err != nil {
			return err
		}
		for boardID, role := range user.Roles {
			roleRow := roleRecord{
				UserID:  user.ID.String(),
				BoardID: boardID.String(),
				Role:    role.String(),
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "board_id"}},
				UpdateAll: true,
			}).Create(&roleRow).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByConnectionID resolves the user currently bound to a connection.
func (r *UserRepository) FindByConnectionID(ctx context.Context, connectionID string) (*domain.User, error) {
	var record userRecord
	err := r.db.WithContext(ctx).Where("connection_id = ?", connectionID).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("user")
	}
	if err != nil {
		return nil, err
	}
	return r.assembleUser(ctx, record)
}

// FindAll returns every persisted session user with roles attached.
func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	var records []userRecord
	if err := r.db.WithContext(ctx).Order("connected_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(records))
	for _, record := range records {
		user, err := r.assembleUser(ctx, record)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// DeleteByConnectionID removes the user row and its role entries. Called from
// disconnect cleanup; a missing row is not an error.
func (r *UserRepository) DeleteByConnectionID(ctx context.Context, connectionID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record userRecord
		err := tx.Where("connection_id = ?", connectionID).Take(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", record.ID).Delete(&roleRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", record.ID).Delete(&userRecord{}).Error
	})
}

func (r *UserRepository) assembleUser(ctx context.Context, record userRecord) (*domain.User, error) {
	var roleRows []roleRecord
	if err := r.db.WithContext(ctx).Where("user_id = ?", record.ID).Find(&roleRows).Error; err != nil {
		return nil, err
	}
	roles := make(map[domain.BoardID]domain.Role, len(roleRows))
	for _, row := range roleRows {
		role, err := domain.ParseRole(row.Role)
		if err != nil {
			// Unknown stored roles degrade to viewer rather than failing reads.
			role = domain.RoleViewer
		}
		roles[domain.BoardID(row.BoardID)] = role
	}
	return &domain.User{
		ID:           domain.UserID(record.ID),
		Name:         record.Name,
		ConnectionID: record.ConnectionID,
		ConnectedAt:  record.ConnectedAt,
		Roles:        roles,
	}, nil
}
