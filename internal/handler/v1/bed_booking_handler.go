package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink/carelink-api/internal/domain/bedbooking"
	"github.com/carelink/carelink-api/internal/service"
)

type BedBookingHandler struct {
	bedBookingSvc *service.BedBookingService
}

func NewBedBookingHandler(bedBookingSvc *service.BedBookingService) *BedBookingHandler {
	return &BedBookingHandler{bedBookingSvc: bedBookingSvc}
}

type createBedBookingRequest struct {
	HospitalID    uuid.UUID          `json:"hospital_id"`
	BedType       bedbooking.BedType `json:"bed_type"`
	AdmissionDate time.Time          `json:"admission_date"`
	DailyCharge   float64            `json:"daily_charge"`
}

func (h *BedBookingHandler) CreateBooking(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}

	var req createBedBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.bedBookingSvc.CreateBooking(c.Request.Context(), &bedbooking.CreateCommand{
		HospitalID:    req.HospitalID,
		BedType:       req.BedType,
		AdmissionDate: req.AdmissionDate,
		DailyCharge:   req.DailyCharge,
	}, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, b)
}

func (h *BedBookingHandler) ListBookings(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}

	q := &bedbooking.ListQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		status := bedbooking.Status(raw)
		q.Status = &status
	}

	result, err := h.bedBookingSvc.ListBookings(c.Request.Context(), q, claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, result)
}

type updateBedBookingRequest struct {
	Status        *bedbooking.Status `json:"status"`
	DischargeDate *time.Time         `json:"discharge_date"`
	TotalAmount   *float64           `json:"total_amount"`
}

func (h *BedBookingHandler) UpdateBooking(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateBedBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.bedBookingSvc.UpdateBooking(c.Request.Context(), id, &bedbooking.UpdateCommand{
		Status:        req.Status,
		DischargeDate: req.DischargeDate,
		TotalAmount:   req.TotalAmount,
	}, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, b)
}

func (h *BedBookingHandler) Availability(c *gin.Context) {
	hospitalID, ok := parseUUID(c, "hospitalId")
	if !ok {
		return
	}

	avail, err := h.bedBookingSvc.Availability(c.Request.Context(), hospitalID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, avail)
}
