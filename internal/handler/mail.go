package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kitciruelas/soteros-backend-sub001/internal/delivery"
	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

// MailHandler exposes the delivery engine for operator smoke tests and
// group sends. Bodies arrive pre-rendered; this surface never templates.
type MailHandler struct {
	engine      *delivery.Engine
	coordinator *delivery.Coordinator
	validate    *validator.Validate
}

// NewMailHandler creates a new MailHandler
func NewMailHandler(engine *delivery.Engine, coordinator *delivery.Coordinator) *MailHandler {
	return &MailHandler{
		engine:      engine,
		coordinator: coordinator,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers mail routes
func (h *MailHandler) RegisterRoutes(r chi.Router) {
	r.Post("/test", h.SendTest)
	r.Post("/batch", h.SendBatch)
}

// SendTestRequest is an operator smoke test of the fallback chain
type SendTestRequest struct {
	Recipient string `json:"recipient" validate:"required,email"`
	Subject   string `json:"subject" validate:"required"`
	Body      string `json:"body" validate:"required"`
}

// SendTest sends one message and returns the full delivery result,
// including the attempt history
func (h *MailHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	var req SendTestRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleError(w, err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	result := h.engine.SendEmail(r.Context(), domain.Message{
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Body:      req.Body,
	})

	if !result.Delivered {
		JSON(w, http.StatusBadGateway, result)
		return
	}

	JSON(w, http.StatusOK, result)
}

// SendBatchRequest fans one message out to a group of recipients
type SendBatchRequest struct {
	Recipients []string `json:"recipients" validate:"dive,email"`
	Subject    string   `json:"subject" validate:"required"`
	Body       string   `json:"body" validate:"required"`
}

// SendBatch sends to every recipient independently and returns the
// aggregated batch result. Per-recipient failures are entries in the
// result, never a call-level error.
func (h *MailHandler) SendBatch(w http.ResponseWriter, r *http.Request) {
	var req SendBatchRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleError(w, err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	result := h.coordinator.SendToMany(r.Context(), req.Recipients, func(recipient string) domain.Message {
		return domain.Message{
			Recipient: recipient,
			Subject:   req.Subject,
			Body:      req.Body,
		}
	})

	JSON(w, http.StatusOK, result)
}
