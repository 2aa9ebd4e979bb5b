package repositories

import (
	"github.com/tahmidul512/linkloop/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceRepository stores FCM registration tokens per user.
type DeviceRepository interface {
	Upsert(device *models.Device) error
	GetTokensByUserID(userID uint) ([]string, error)
	DeleteToken(token string) error
}

type postgresDeviceRepository struct {
	db *gorm.DB
}

func NewPostgresDeviceRepository(db *gorm.DB) DeviceRepository {
	return &postgresDeviceRepository{db: db}
}

// Upsert registers a token, reassigning it if another user logged in on
// the same device.
func (r *postgresDeviceRepository) Upsert(device *models.Device) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "updated_at"}),
	}).Create(device).Error
}

func (r *postgresDeviceRepository) GetTokensByUserID(userID uint) ([]string, error) {
	var tokens []string
	err := r.db.Model(&models.Device{}).
		Where("user_id = ?", userID).
		Pluck("token", &tokens).Error
	return tokens, err
}

// DeleteToken drops a token FCM reported as no longer registered.
func (r *postgresDeviceRepository) DeleteToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.Device{}).Error
}
