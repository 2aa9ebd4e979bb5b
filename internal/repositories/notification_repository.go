package repositories

import (
	"github.com/tahmidul512/linkloop/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository is the single source of truth for notification
// rows and unread counts. All methods are safe under concurrent calls
// from fan-out workers: rows are independent and counts are always
// recomputed from the table, never cached.
type NotificationRepository interface {
	Insert(notification *models.Notification) error
	ListForRecipient(recipientID uint, page, pageSize int, filter models.NotificationFilter) ([]models.Notification, bool, error)
	MarkRead(notificationID, recipientID uint) error
	MarkAllRead(recipientID uint) (int64, error)
	UnreadCount(recipientID uint) (int64, error)
	ListAdminFeed(limit int) ([]models.Notification, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Insert(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// ListForRecipient returns one page of the recipient's feed, newest
// first, plus a hasMore flag. It fetches pageSize+1 rows so hasMore
// never needs a separate count query.
func (r *postgresNotificationRepository) ListForRecipient(recipientID uint, page, pageSize int, filter models.NotificationFilter) ([]models.Notification, bool, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	q := r.db.Where("recipient_id = ?", recipientID)
	switch filter {
	case models.FilterUnread:
		q = q.Where("is_read = ?", false)
	case models.FilterSystem:
		q = q.Where("kind = ?", models.KindSystem)
	}

	var notifications []models.Notification
	offset := (page - 1) * pageSize
	err := q.Order("created_at DESC, id DESC").
		Offset(offset).Limit(pageSize + 1).
		Find(&notifications).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(notifications) > pageSize
	if hasMore {
		notifications = notifications[:pageSize]
	}
	return notifications, hasMore, nil
}

// MarkRead sets is_read for a single notification owned by recipientID.
// Already-read rows and rows owned by someone else are a no-op, never
// an error, so the endpoint stays idempotent.
func (r *postgresNotificationRepository) MarkRead(notificationID, recipientID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true).Error
}

func (r *postgresNotificationRepository) MarkAllRead(recipientID uint) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// UnreadCount is a fresh aggregate on every call. Admin-kind rows never
// count towards an individual's badge.
func (r *postgresNotificationRepository) UnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ? AND kind <> ?", recipientID, false, models.KindAdmin).
		Count(&count).Error
	return count, err
}

// ListAdminFeed returns the newest admin-room rows. The admin room is a
// live feed rather than an inbox, so there is no per-user read state.
func (r *postgresNotificationRepository) ListAdminFeed(limit int) ([]models.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var notifications []models.Notification
	err := r.db.Where("recipient_id IS NULL").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}
