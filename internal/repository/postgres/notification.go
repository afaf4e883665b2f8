package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

// priorityRankSQL orders the feed by the fixed priority rank, not the
// lexicographic order of the level names.
const priorityRankSQL = `CASE priority_level
		WHEN 'critical' THEN 4
		WHEN 'high' THEN 3
		WHEN 'medium' THEN 2
		WHEN 'low' THEN 1
		ELSE 0
	END`

// NotificationRepository implements domain.NotificationRepository using
// PostgreSQL. Visibility is always scoped to the requesting admin plus
// broadcast rows; row-affecting mutations report affected/not-affected
// without distinguishing not-found from not-visible.
type NotificationRepository struct {
	db *DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts one notification record and returns the assigned id.
// A nil AdminID stores a broadcast row.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.AdminNotification) (int64, error) {
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		metadata = []byte("{}")
	}

	query := `
		INSERT INTO admin_notifications (
			admin_id, type, title, message, severity, priority_level,
			is_read, related_type, related_id, action_url, metadata,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		RETURNING id
	`

	var id int64
	err = r.db.Pool.QueryRow(ctx, query,
		n.AdminID, n.Type, n.Title, n.Message, n.Severity, n.PriorityLevel,
		n.IsRead, n.RelatedType, n.RelatedID, n.ActionURL, metadata,
		n.CreatedAt, n.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create admin notification: %w", err)
	}

	return id, nil
}

// List returns one page of the notifications visible to adminID,
// ordered by priority rank then recency. The unread count in the
// result ignores the type/severity filters: it is always the admin's
// global unread count.
func (r *NotificationRepository) List(ctx context.Context, adminID int64, filter domain.NotificationFilter) (*domain.NotificationListResult, error) {
	conditions := []string{"(admin_id = $1 OR admin_id IS NULL)"}
	args := []any{adminID}
	argIndex := 2

	if filter.UnreadOnly {
		conditions = append(conditions, "is_read = FALSE")
	}

	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIndex))
		args = append(args, *filter.Type)
		argIndex++
	}

	if filter.Severity != nil {
		conditions = append(conditions, fmt.Sprintf("severity = $%d", argIndex))
		args = append(args, *filter.Severity)
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM admin_notifications WHERE %s", whereClause)
	var total int64
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count admin notifications: %w", err)
	}

	unreadCount, err := r.UnreadCount(ctx, adminID)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT id, admin_id, type, title, message, severity, priority_level,
			is_read, related_type, related_id, action_url, metadata,
			created_at, updated_at
		FROM admin_notifications
		WHERE %s
		ORDER BY %s DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, priorityRankSQL, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query admin notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]*domain.AdminNotification, 0)
	for rows.Next() {
		n := &domain.AdminNotification{}
		var metadata []byte

		err := rows.Scan(
			&n.ID, &n.AdminID, &n.Type, &n.Title, &n.Message, &n.Severity, &n.PriorityLevel,
			&n.IsRead, &n.RelatedType, &n.RelatedID, &n.ActionURL, &metadata,
			&n.CreatedAt, &n.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin notification: %w", err)
		}

		if len(metadata) > 0 {
			json.Unmarshal(metadata, &n.Metadata)
		}

		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admin notifications: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &domain.NotificationListResult{
		Notifications: notifications,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    totalPages,
	}, nil
}

// MarkRead sets is_read on a notification visible to adminID. The
// false return covers both not-found and not-visible; callers cannot
// probe for another admin's private rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, adminID int64) (bool, error) {
	query := `
		UPDATE admin_notifications
		SET is_read = TRUE, updated_at = now()
		WHERE id = $1 AND (admin_id = $2 OR admin_id IS NULL)
	`

	result, err := r.db.Pool.Exec(ctx, query, id, adminID)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// MarkAllRead sets is_read on every unread notification visible to
// adminID and returns the number of rows affected.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, adminID int64) (int64, error) {
	query := `
		UPDATE admin_notifications
		SET is_read = TRUE, updated_at = now()
		WHERE (admin_id = $1 OR admin_id IS NULL) AND is_read = FALSE
	`

	result, err := r.db.Pool.Exec(ctx, query, adminID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	return result.RowsAffected(), nil
}

// Delete removes a notification visible to adminID
func (r *NotificationRepository) Delete(ctx context.Context, id, adminID int64) (bool, error) {
	query := `
		DELETE FROM admin_notifications
		WHERE id = $1 AND (admin_id = $2 OR admin_id IS NULL)
	`

	result, err := r.db.Pool.Exec(ctx, query, id, adminID)
	if err != nil {
		return false, fmt.Errorf("failed to delete notification: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// UnreadCount returns the admin's global unread count
func (r *NotificationRepository) UnreadCount(ctx context.Context, adminID int64) (int64, error) {
	query := `
		SELECT COUNT(*) FROM admin_notifications
		WHERE (admin_id = $1 OR admin_id IS NULL) AND is_read = FALSE
	`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, adminID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// PriorityUnreadCount returns the admin's unread count restricted to
// high and critical priority rows
func (r *NotificationRepository) PriorityUnreadCount(ctx context.Context, adminID int64) (int64, error) {
	query := `
		SELECT COUNT(*) FROM admin_notifications
		WHERE (admin_id = $1 OR admin_id IS NULL)
			AND is_read = FALSE
			AND priority_level IN ('high', 'critical')
	`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, adminID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count priority unread notifications: %w", err)
	}

	return count, nil
}
