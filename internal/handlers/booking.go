package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tempora-app/tempora/internal/booking"
	"github.com/tempora-app/tempora/internal/model"
	"github.com/tempora-app/tempora/libs/auth"
)

type BookingHandler struct {
	engine *booking.Engine
	logger *slog.Logger
}

func NewBookingHandler(engine *booking.Engine, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{engine: engine, logger: logger}
}

type slotItem struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type bookRequest struct {
	BusinessID    string `json:"business_id"`
	ServiceID     string `json:"service_id"`
	StaffID       string `json:"staff_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	Notes         string `json:"notes"`
	StartTime     string `json:"start_time"`
}

type bookResponse struct {
	AppointmentID string `json:"appointment_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
}

type transitionRequest struct {
	AppointmentID string `json:"appointment_id"`
	Action        string `json:"action"`
	Reason        string `json:"reason"`
}

type appointmentItem struct {
	AppointmentID string `json:"appointment_id"`
	ServiceID     string `json:"service_id"`
	StaffID       string `json:"staff_id,omitempty"`
	CustomerName  string `json:"customer_name"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
	CancelReason  string `json:"cancel_reason,omitempty"`
	CancelledAt   string `json:"cancelled_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// Slots is public: no auth, safe to cache briefly on the client side.
func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := booking.SlotQuery{
		BusinessID: strings.TrimSpace(r.URL.Query().Get("business_id")),
		ServiceID:  strings.TrimSpace(r.URL.Query().Get("service_id")),
		StaffID:    strings.TrimSpace(r.URL.Query().Get("staff_id")),
		Date:       strings.TrimSpace(r.URL.Query().Get("date")),
	}
	if q.BusinessID == "" || q.ServiceID == "" || q.Date == "" {
		http.Error(w, "business_id, service_id, and date are required", http.StatusBadRequest)
		return
	}

	slots, err := h.engine.AvailableSlots(r.Context(), q)
	if err != nil {
		h.writeError(w, err, "failed to compute slots")
		return
	}

	items := make([]slotItem, 0, len(slots))
	for _, s := range slots {
		items = append(items, slotItem{
			StartTime: s.Start.UTC().Format(time.RFC3339),
			EndTime:   s.End.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.BusinessID = strings.TrimSpace(req.BusinessID)
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.BusinessID == "" || req.ServiceID == "" || req.CustomerName == "" {
		http.Error(w, "business_id, service_id, and customer_name are required", http.StatusBadRequest)
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}

	appt, err := h.engine.Book(r.Context(), booking.BookingRequest{
		BusinessID:    req.BusinessID,
		ServiceID:     req.ServiceID,
		StaffID:       strings.TrimSpace(req.StaffID),
		SlotStart:     start,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	})
	if err != nil {
		h.writeError(w, err, "failed to book appointment")
		return
	}

	writeJSON(w, http.StatusCreated, bookResponse{
		AppointmentID: appt.ID,
		StartTime:     appt.StartTime.UTC().Format(time.RFC3339),
		EndTime:       appt.EndTime.UTC().Format(time.RFC3339),
		Status:        string(appt.Status),
	})
}

func (h *BookingHandler) Transition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.AppointmentID == "" || req.Action == "" {
		http.Error(w, "appointment_id and action are required", http.StatusBadRequest)
		return
	}

	actor := booking.Actor{ID: claims.Sub, BusinessID: claims.BusinessID, Role: claims.Role}
	appt, err := h.engine.Transition(r.Context(), claims.BusinessID, req.AppointmentID, model.Action(req.Action), actor, req.Reason)
	if err != nil {
		h.writeError(w, err, "failed to transition appointment")
		return
	}

	writeJSON(w, http.StatusOK, toItem(*appt))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	appts, err := h.engine.Appointments(r.Context(), claims.BusinessID, limit)
	if err != nil {
		h.writeError(w, err, "failed to list appointments")
		return
	}

	items := make([]appointmentItem, 0, len(appts))
	for _, appt := range appts {
		items = append(items, toItem(appt))
	}
	writeJSON(w, http.StatusOK, items)
}

func toItem(appt model.Appointment) appointmentItem {
	item := appointmentItem{
		AppointmentID: appt.ID,
		ServiceID:     appt.ServiceID,
		StaffID:       appt.StaffID,
		CustomerName:  appt.CustomerName,
		StartTime:     appt.StartTime.UTC().Format(time.RFC3339),
		EndTime:       appt.EndTime.UTC().Format(time.RFC3339),
		Status:        string(appt.Status),
		CancelReason:  appt.CancelReason,
		CreatedAt:     appt.CreatedAt.UTC().Format(time.RFC3339),
	}
	if appt.CancelledAt != nil {
		item.CancelledAt = appt.CancelledAt.UTC().Format(time.RFC3339)
	}
	return item
}

// writeError maps the engine's sentinel errors onto HTTP statuses. Anything
// unrecognized is an internal failure and gets logged, not leaked.
func (h *BookingHandler) writeError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, booking.ErrInvalidDate):
		http.Error(w, "invalid date", http.StatusBadRequest)
	case errors.Is(err, booking.ErrInvalidTime):
		http.Error(w, "start time is invalid or in the past", http.StatusBadRequest)
	case errors.Is(err, booking.ErrReasonRequired):
		http.Error(w, "a cancellation reason is required", http.StatusBadRequest)
	case errors.Is(err, booking.ErrSlotUnavailable):
		http.Error(w, "slot is no longer available, pick a different time", http.StatusUnprocessableEntity)
	case errors.Is(err, booking.ErrSlotConflict):
		http.Error(w, "slot was just booked by someone else, pick a different time", http.StatusConflict)
	case errors.Is(err, booking.ErrInvalidTransition):
		http.Error(w, "appointment status does not permit this action", http.StatusConflict)
	case errors.Is(err, booking.ErrForbidden):
		http.Error(w, "not permitted", http.StatusForbidden)
	case errors.Is(err, booking.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		h.logger.Error(logMsg, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
