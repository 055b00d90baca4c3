package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink/carelink-api/internal/domain/appointment"
	"github.com/carelink/carelink-api/internal/service"
)

type AppointmentHandler struct {
	appointmentSvc *service.AppointmentService
}

func NewAppointmentHandler(appointmentSvc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentSvc: appointmentSvc}
}

type createAppointmentRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason"`
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}

	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.appointmentSvc.CreateAppointment(c.Request.Context(), &appointment.CreateCommand{
		DoctorID:    req.DoctorID,
		ScheduledAt: req.ScheduledAt,
		Reason:      req.Reason,
	}, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, a)
}

func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}

	q := &appointment.ListQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		status := appointment.Status(raw)
		q.Status = &status
	}

	result, err := h.appointmentSvc.ListAppointments(c.Request.Context(), q, claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, result)
}

type setAppointmentStatusRequest struct {
	Status appointment.Status `json:"status"`
	Reason string             `json:"reason"`
}

func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req setAppointmentStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.appointmentSvc.SetStatus(c.Request.Context(), id, req.Status, req.Reason, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}
