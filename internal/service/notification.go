package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

// AdminNotificationService handles the admin notification feed and the
// producer-facing creation helpers. Producers treat creation failure as
// non-fatal to the triggering domain action: they log and continue, so
// errors returned here must never block e.g. incident creation.
type AdminNotificationService struct {
	repo            domain.NotificationRepository
	cache           domain.BadgeCache
	logger          *slog.Logger
	frontendBaseURL string
	createdHook     func(n *domain.AdminNotification)
}

// NewAdminNotificationService creates a new AdminNotificationService
func NewAdminNotificationService(
	repo domain.NotificationRepository,
	cache domain.BadgeCache,
	logger *slog.Logger,
	frontendBaseURL string,
) *AdminNotificationService {
	return &AdminNotificationService{
		repo:            repo,
		cache:           cache,
		logger:          logger,
		frontendBaseURL: frontendBaseURL,
	}
}

// SetCreatedHook sets a function invoked after each successful create.
// Used to push new notifications to connected dashboards and record
// metrics.
func (s *AdminNotificationService) SetCreatedHook(fn func(n *domain.AdminNotification)) {
	s.createdHook = fn
}

// CreateParams holds the fields for a generic notification create
type CreateParams struct {
	Type          string
	Title         string
	Message       string
	Severity      domain.Severity
	PriorityLevel domain.PriorityLevel
	TargetAdminID *int64
	RelatedType   *string
	RelatedID     *int64
	ActionURL     *string
	Metadata      map[string]any
}

// Create inserts one notification. A nil TargetAdminID creates a
// broadcast row visible to every admin.
func (s *AdminNotificationService) Create(ctx context.Context, params CreateParams) (*domain.AdminNotification, error) {
	if params.Type == "" {
		return nil, domain.NewValidationError("type", "type is required")
	}
	if params.Title == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}

	n := domain.NewAdminNotification(params.Type, params.Title, params.Message)
	n.AdminID = params.TargetAdminID
	n.RelatedType = params.RelatedType
	n.RelatedID = params.RelatedID
	n.ActionURL = params.ActionURL
	n.Metadata = params.Metadata

	if params.Severity != "" {
		if !params.Severity.IsValid() {
			return nil, domain.NewValidationError("severity", "invalid severity")
		}
		n.Severity = params.Severity
	}
	if params.PriorityLevel != "" {
		if !params.PriorityLevel.IsValid() {
			return nil, domain.NewValidationError("priority_level", "invalid priority level")
		}
		n.PriorityLevel = params.PriorityLevel
	}

	id, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin notification: %w", err)
	}
	n.ID = id

	s.invalidateBadges(ctx)

	if s.createdHook != nil {
		s.createdHook(n)
	}

	s.logger.Info("admin notification created",
		"notification_id", n.ID,
		"type", n.Type,
		"severity", n.Severity,
		"broadcast", n.AdminID == nil,
	)

	return n, nil
}

// IncidentEvent carries the fields a reported incident contributes to
// its admin notification
type IncidentEvent struct {
	IncidentID   int64
	IncidentType string
	Priority     string
	Location     string
	ReporterName string
}

// incident priority to notification severity, fixed mapping table
var incidentSeverity = map[string]domain.Severity{
	"critical": domain.SeverityCritical,
	"high":     domain.SeverityCritical,
	"moderate": domain.SeverityWarning,
	"low":      domain.SeverityInfo,
}

// incident priority to feed priority level, fixed mapping table
var incidentPriority = map[string]domain.PriorityLevel{
	"critical": domain.PriorityCritical,
	"high":     domain.PriorityHigh,
	"moderate": domain.PriorityMedium,
	"low":      domain.PriorityLow,
}

// CreateIncidentNotification creates the broadcast notification for a
// newly reported incident
func (s *AdminNotificationService) CreateIncidentNotification(ctx context.Context, event IncidentEvent) (*domain.AdminNotification, error) {
	severity, ok := incidentSeverity[event.Priority]
	if !ok {
		severity = domain.SeverityInfo
	}
	priority, ok := incidentPriority[event.Priority]
	if !ok {
		priority = domain.PriorityMedium
	}

	relatedType := "incident"
	actionURL := fmt.Sprintf("%s/admin/incidents/%d", s.frontendBaseURL, event.IncidentID)

	return s.Create(ctx, CreateParams{
		Type:          "incident_reported",
		Title:         fmt.Sprintf("New %s incident reported", event.IncidentType),
		Message:       fmt.Sprintf("%s reported a %s incident at %s", event.ReporterName, event.IncidentType, event.Location),
		Severity:      severity,
		PriorityLevel: priority,
		RelatedType:   &relatedType,
		RelatedID:     &event.IncidentID,
		ActionURL:     &actionURL,
		Metadata: map[string]any{
			"incident_priority": event.Priority,
			"location":          event.Location,
		},
	})
}

// WelfareEvent carries the fields of a submitted welfare report
type WelfareEvent struct {
	ReportID     int64
	ReporterName string
	Status       string
}

// CreateWelfareNotification creates the broadcast notification for a
// submitted welfare check report
func (s *AdminNotificationService) CreateWelfareNotification(ctx context.Context, event WelfareEvent) (*domain.AdminNotification, error) {
	severity := domain.SeverityInfo
	priority := domain.PriorityMedium
	if event.Status == "needs_help" {
		severity = domain.SeverityWarning
		priority = domain.PriorityHigh
	}

	relatedType := "welfare_report"
	actionURL := fmt.Sprintf("%s/admin/welfare/%d", s.frontendBaseURL, event.ReportID)

	return s.Create(ctx, CreateParams{
		Type:          "welfare_report",
		Title:         "New welfare check report",
		Message:       fmt.Sprintf("%s submitted a welfare report (%s)", event.ReporterName, event.Status),
		Severity:      severity,
		PriorityLevel: priority,
		RelatedType:   &relatedType,
		RelatedID:     &event.ReportID,
		ActionURL:     &actionURL,
	})
}

// AlertEvent carries the fields of an issued alert
type AlertEvent struct {
	AlertID  int64
	Title    string
	Severity string
}

// alert severity to notification severity, fixed mapping table
var alertSeverity = map[string]domain.Severity{
	"emergency": domain.SeverityCritical,
	"warning":   domain.SeverityWarning,
	"info":      domain.SeverityInfo,
}

// CreateAlertNotification creates the broadcast notification for an
// issued alert
func (s *AdminNotificationService) CreateAlertNotification(ctx context.Context, event AlertEvent) (*domain.AdminNotification, error) {
	severity, ok := alertSeverity[event.Severity]
	if !ok {
		severity = domain.SeverityInfo
	}
	priority := domain.PriorityMedium
	if severity == domain.SeverityCritical {
		priority = domain.PriorityCritical
	}

	relatedType := "alert"
	actionURL := fmt.Sprintf("%s/admin/alerts/%d", s.frontendBaseURL, event.AlertID)

	return s.Create(ctx, CreateParams{
		Type:          "alert_issued",
		Title:         fmt.Sprintf("Alert issued: %s", event.Title),
		Message:       fmt.Sprintf("A new %s alert has been issued", event.Severity),
		Severity:      severity,
		PriorityLevel: priority,
		RelatedType:   &relatedType,
		RelatedID:     &event.AlertID,
		ActionURL:     &actionURL,
	})
}

// SafetyProtocolEvent carries the fields of a safety protocol change
type SafetyProtocolEvent struct {
	ProtocolID int64
	Title      string
	Action     string
}

// CreateSafetyProtocolNotification creates the broadcast notification
// for a created or updated safety protocol
func (s *AdminNotificationService) CreateSafetyProtocolNotification(ctx context.Context, event SafetyProtocolEvent) (*domain.AdminNotification, error) {
	relatedType := "safety_protocol"
	actionURL := fmt.Sprintf("%s/admin/safety-protocols/%d", s.frontendBaseURL, event.ProtocolID)

	return s.Create(ctx, CreateParams{
		Type:          "safety_protocol",
		Title:         fmt.Sprintf("Safety protocol %s: %s", event.Action, event.Title),
		Message:       fmt.Sprintf("The safety protocol %q has been %s", event.Title, event.Action),
		Severity:      domain.SeverityInfo,
		PriorityLevel: domain.PriorityMedium,
		RelatedType:   &relatedType,
		RelatedID:     &event.ProtocolID,
		ActionURL:     &actionURL,
	})
}

// CreateSystemNotification creates a broadcast system notification
func (s *AdminNotificationService) CreateSystemNotification(ctx context.Context, title, message string, severity domain.Severity) (*domain.AdminNotification, error) {
	priority := domain.PriorityMedium
	if severity == domain.SeverityCritical {
		priority = domain.PriorityHigh
	}

	return s.Create(ctx, CreateParams{
		Type:          "system",
		Title:         title,
		Message:       message,
		Severity:      severity,
		PriorityLevel: priority,
	})
}

// List returns one page of the admin's feed
func (s *AdminNotificationService) List(ctx context.Context, adminID int64, filter domain.NotificationFilter) (*domain.NotificationListResult, error) {
	return s.repo.List(ctx, adminID, filter)
}

// MarkRead marks a single notification read
func (s *AdminNotificationService) MarkRead(ctx context.Context, id, adminID int64) (bool, error) {
	affected, err := s.repo.MarkRead(ctx, id, adminID)
	if err != nil {
		return false, err
	}

	if affected {
		s.invalidateBadges(ctx)
	}

	return affected, nil
}

// MarkAllRead marks every unread notification visible to the admin read
func (s *AdminNotificationService) MarkAllRead(ctx context.Context, adminID int64) (int64, error) {
	count, err := s.repo.MarkAllRead(ctx, adminID)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.invalidateBadges(ctx)
	}

	s.logger.Info("marked all notifications read",
		"admin_id", adminID,
		"count", count,
	)

	return count, nil
}

// Delete removes a notification visible to the admin
func (s *AdminNotificationService) Delete(ctx context.Context, id, adminID int64) (bool, error) {
	affected, err := s.repo.Delete(ctx, id, adminID)
	if err != nil {
		return false, err
	}

	if affected {
		s.invalidateBadges(ctx)
	}

	return affected, nil
}

// UnreadCounts returns the admin's badge counters, served from the
// cache when fresh
func (s *AdminNotificationService) UnreadCounts(ctx context.Context, adminID int64) (*domain.UnreadCounts, error) {
	if cached, err := s.cache.GetCounts(ctx, adminID); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		s.logger.Warn("badge cache read failed", "error", err)
	}

	unread, err := s.repo.UnreadCount(ctx, adminID)
	if err != nil {
		return nil, err
	}

	priorityUnread, err := s.repo.PriorityUnreadCount(ctx, adminID)
	if err != nil {
		return nil, err
	}

	counts := domain.UnreadCounts{
		Unread:         unread,
		PriorityUnread: priorityUnread,
	}

	if err := s.cache.SetCounts(ctx, adminID, counts); err != nil {
		s.logger.Warn("badge cache write failed", "error", err)
	}

	return &counts, nil
}

// invalidateBadges drops all cached badge counters. The cache is
// advisory; failures are logged, never propagated.
func (s *AdminNotificationService) invalidateBadges(ctx context.Context) {
	// Bound the invalidation so a slow cache cannot stall a mutation.
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("badge cache invalidation failed", "error", err)
	}
}
