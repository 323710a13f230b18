package session

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/game-event-planner/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend keeps sessions in the sessions table.
type GormBackend struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormBackend creates a Backend over the sessions table.
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db, now: time.Now}
}

func (b *GormBackend) Get(ctx context.Context, id string) ([]byte, bool, error) {
	var row models.Session
	err := b.db.WithContext(ctx).
		Where("session_id = ? AND expires > ?", id, b.now().Unix()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(row.Data), true, nil
}

func (b *GormBackend) Set(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	row := models.Session{
		SessionID: id,
		Expires:   b.now().Add(ttl).Unix(),
		Data:      string(data),
	}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"expires", "data"}),
		}).
		Create(&row).Error
}

func (b *GormBackend) Delete(ctx context.Context, id string) error {
	return b.db.WithContext(ctx).Where("session_id = ?", id).Delete(&models.Session{}).Error
}

func (b *GormBackend) DeleteExpired(ctx context.Context) (int64, error) {
	result := b.db.WithContext(ctx).Where("expires <= ?", b.now().Unix()).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
