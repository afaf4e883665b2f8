package domain

import (
	"context"
	"time"
)

// Severity represents the severity of an admin notification
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// PriorityLevel orders notifications in the admin feed
type PriorityLevel string

const (
	PriorityLow      PriorityLevel = "low"
	PriorityMedium   PriorityLevel = "medium"
	PriorityHigh     PriorityLevel = "high"
	PriorityCritical PriorityLevel = "critical"
)

// Rank returns the fixed feed ordering rank (higher sorts first).
// The rank is positional, not lexicographic.
func (p PriorityLevel) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func (p PriorityLevel) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// IsPriority reports whether the level counts toward the priority
// unread badge.
func (p PriorityLevel) IsPriority() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// AdminNotification is a persisted admin-feed entry. AdminID nil means
// the notification is broadcast: visible to every admin, and all admins
// share its single read flag.
type AdminNotification struct {
	ID            int64          `json:"id"`
	AdminID       *int64         `json:"admin_id,omitempty"`
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Message       string         `json:"message"`
	Severity      Severity       `json:"severity"`
	PriorityLevel PriorityLevel  `json:"priority_level"`
	IsRead        bool           `json:"is_read"`
	RelatedType   *string        `json:"related_type,omitempty"`
	RelatedID     *int64         `json:"related_id,omitempty"`
	ActionURL     *string        `json:"action_url,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewAdminNotification creates an unread notification with defaults
func NewAdminNotification(ntype, title, message string) *AdminNotification {
	now := time.Now().UTC()
	return &AdminNotification{
		Type:          ntype,
		Title:         title,
		Message:       message,
		Severity:      SeverityInfo,
		PriorityLevel: PriorityMedium,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NotificationFilter narrows an admin's feed listing. UnreadOnly, Type
// and Severity restrict the page and total count only; the unread count
// returned alongside is always global for the admin.
type NotificationFilter struct {
	UnreadOnly bool
	Type       *string
	Severity   *Severity
	Page       int
	PageSize   int
}

// NotificationListResult is one page of an admin's feed
type NotificationListResult struct {
	Notifications []*AdminNotification `json:"notifications"`
	Total         int64                `json:"total"`
	UnreadCount   int64                `json:"unread_count"`
	Page          int                  `json:"page"`
	PageSize      int                  `json:"page_size"`
	TotalPages    int                  `json:"total_pages"`
}

// UnreadCounts holds the scalar badge values for an admin's UI
type UnreadCounts struct {
	Unread         int64 `json:"unread"`
	PriorityUnread int64 `json:"priority_unread"`
}

// NotificationRepository persists admin notifications. Visibility is
// always `admin_id = adminID OR admin_id IS NULL`; a row-affecting
// operation on a row outside that scope reports not-affected, which is
// indistinguishable from not-found.
type NotificationRepository interface {
	Create(ctx context.Context, n *AdminNotification) (int64, error)
	List(ctx context.Context, adminID int64, filter NotificationFilter) (*NotificationListResult, error)
	MarkRead(ctx context.Context, id, adminID int64) (bool, error)
	MarkAllRead(ctx context.Context, adminID int64) (int64, error)
	Delete(ctx context.Context, id, adminID int64) (bool, error)
	UnreadCount(ctx context.Context, adminID int64) (int64, error)
	PriorityUnreadCount(ctx context.Context, adminID int64) (int64, error)
}

// BadgeCache is a lookaside cache for the badge counters. Broadcast
// rows share read state across admins, so mutations invalidate the
// whole cache rather than a single admin's keys.
type BadgeCache interface {
	GetCounts(ctx context.Context, adminID int64) (*UnreadCounts, error)
	SetCounts(ctx context.Context, adminID int64, counts UnreadCounts) error
	Invalidate(ctx context.Context) error
}
