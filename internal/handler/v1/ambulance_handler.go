package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/carelink/carelink-api/internal/domain/ambulance"
	"github.com/carelink/carelink-api/internal/service"
)

type AmbulanceHandler struct {
	ambulanceSvc *service.AmbulanceService
}

func NewAmbulanceHandler(ambulanceSvc *service.AmbulanceService) *AmbulanceHandler {
	return &AmbulanceHandler{ambulanceSvc: ambulanceSvc}
}

type registerAmbulanceRequest struct {
	VehicleNumber string `json:"vehicle_number"`
}

func (h *AmbulanceHandler) RegisterAmbulance(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}

	var req registerAmbulanceRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.ambulanceSvc.RegisterAmbulance(c.Request.Context(), req.VehicleNumber, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, a)
}

func (h *AmbulanceHandler) ListAvailable(c *gin.Context) {
	ambulances, err := h.ambulanceSvc.ListAvailable(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, ambulances)
}

type createAmbulanceBookingRequest struct {
	PickupLocation string  `json:"pickup_location"`
	Destination    string  `json:"destination"`
	Amount         float64 `json:"amount"`
}

func (h *AmbulanceHandler) CreateBooking(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}

	var req createAmbulanceBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.ambulanceSvc.CreateBooking(c.Request.Context(), &ambulance.CreateBookingCommand{
		PickupLocation: req.PickupLocation,
		Destination:    req.Destination,
		Amount:         req.Amount,
	}, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, b)
}

func (h *AmbulanceHandler) ListBookings(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}

	q := &ambulance.ListBookingsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		status := ambulance.Status(raw)
		q.Status = &status
	}

	result, err := h.ambulanceSvc.ListBookings(c.Request.Context(), q, claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, result)
}

type setAmbulanceBookingStatusRequest struct {
	Status ambulance.Status `json:"status"`
}

func (h *AmbulanceHandler) SetBookingStatus(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req setAmbulanceBookingStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.ambulanceSvc.SetBookingStatus(c.Request.Context(), id, req.Status, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, b)
}
