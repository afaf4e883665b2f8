package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
	"github.com/kitciruelas/soteros-backend-sub001/internal/service"
)

// NotificationHandler handles the admin notification feed HTTP API.
// Routes are mounted under /api/v1/admins/{adminID}/notifications; the
// admin identity comes from the URL (authentication happens upstream).
type NotificationHandler struct {
	service *service.AdminNotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service *service.AdminNotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// RegisterRoutes registers notification feed routes
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/unread-count", h.UnreadCount)
	r.Put("/read-all", h.MarkAllRead)
	r.Put("/{id}/read", h.MarkRead)
	r.Delete("/{id}", h.Delete)
}

func adminIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "adminID"), 10, 64)
	return id, err == nil && id > 0
}

func notificationIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// List returns one page of the admin's feed, priority-ordered
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	adminID, ok := adminIDParam(r)
	if !ok {
		JSONError(w, http.StatusBadRequest, "INVALID_ADMIN_ID", "Invalid admin ID", nil)
		return
	}

	filter := domain.NotificationFilter{
		Page:     1,
		PageSize: 20,
	}

	q := r.URL.Query()

	if q.Get("unread_only") == "true" {
		filter.UnreadOnly = true
	}

	if t := q.Get("type"); t != "" {
		filter.Type = &t
	}

	if sev := q.Get("severity"); sev != "" {
		s := domain.Severity(sev)
		if !s.IsValid() {
			JSONError(w, http.StatusBadRequest, "INVALID_SEVERITY", "Invalid severity", nil)
			return
		}
		filter.Severity = &s
	}

	if pageStr := q.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			JSONError(w, http.StatusBadRequest, "INVALID_PAGE", "Invalid page number", nil)
			return
		}
		filter.Page = page
	}

	if pageSizeStr := q.Get("page_size"); pageSizeStr != "" {
		pageSize, err := strconv.Atoi(pageSizeStr)
		if err != nil || pageSize < 1 || pageSize > 100 {
			JSONError(w, http.StatusBadRequest, "INVALID_PAGE_SIZE", "Page size must be between 1 and 100", nil)
			return
		}
		filter.PageSize = pageSize
	}

	result, err := h.service.List(r.Context(), adminID, filter)
	if err != nil {
		HandleError(w, err)
		return
	}

	JSON(w, http.StatusOK, result)
}

// UnreadCount returns the admin's badge counters
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	adminID, ok := adminIDParam(r)
	if !ok {
		JSONError(w, http.StatusBadRequest, "INVALID_ADMIN_ID", "Invalid admin ID", nil)
		return
	}

	counts, err := h.service.UnreadCounts(r.Context(), adminID)
	if err != nil {
		HandleError(w, err)
		return
	}

	JSON(w, http.StatusOK, counts)
}

// MarkRead marks a single notification read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	adminID, ok := adminIDParam(r)
	if !ok {
		JSONError(w, http.StatusBadRequest, "INVALID_ADMIN_ID", "Invalid admin ID", nil)
		return
	}

	id, ok := notificationIDParam(r)
	if !ok {
		JSONError(w, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID", nil)
		return
	}

	affected, err := h.service.MarkRead(r.Context(), id, adminID)
	if err != nil {
		HandleError(w, err)
		return
	}

	if !affected {
		// Not found and not visible are deliberately the same answer.
		JSONError(w, http.StatusNotFound, "NOT_FOUND", "Notification not found", nil)
		return
	}

	JSON(w, http.StatusOK, map[string]string{
		"message": "Notification marked as read",
	})
}

// MarkAllRead marks all of the admin's unread notifications read
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	adminID, ok := adminIDParam(r)
	if !ok {
		JSONError(w, http.StatusBadRequest, "INVALID_ADMIN_ID", "Invalid admin ID", nil)
		return
	}

	count, err := h.service.MarkAllRead(r.Context(), adminID)
	if err != nil {
		HandleError(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]int64{
		"marked_read": count,
	})
}

// Delete removes a notification from the admin's feed
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	adminID, ok := adminIDParam(r)
	if !ok {
		JSONError(w, http.StatusBadRequest, "INVALID_ADMIN_ID", "Invalid admin ID", nil)
		return
	}

	id, ok := notificationIDParam(r)
	if !ok {
		JSONError(w, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID", nil)
		return
	}

	affected, err := h.service.Delete(r.Context(), id, adminID)
	if err != nil {
		HandleError(w, err)
		return
	}

	if !affected {
		JSONError(w, http.StatusNotFound, "NOT_FOUND", "Notification not found", nil)
		return
	}

	JSON(w, http.StatusOK, map[string]string{
		"message": "Notification deleted",
	})
}
