package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/carelink/carelink-api/internal/domain/hospital"
	"github.com/carelink/carelink-api/internal/service"
)

type HospitalHandler struct {
	hospitalSvc *service.HospitalService
}

func NewHospitalHandler(hospitalSvc *service.HospitalService) *HospitalHandler {
	return &HospitalHandler{hospitalSvc: hospitalSvc}
}

func (h *HospitalHandler) ListHospitals(c *gin.Context) {
	q := &hospital.ListQuery{
		City:     c.Query("city"),
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	result, err := h.hospitalSvc.ListHospitals(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, result)
}

func (h *HospitalHandler) GetHospital(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	hosp, err := h.hospitalSvc.GetHospital(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, hosp)
}

type updateHospitalRequest struct {
	Name      *string `json:"name"`
	City      *string `json:"city"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
	TotalBeds *int    `json:"total_beds"`
}

func (h *HospitalHandler) UpdateHospital(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateHospitalRequest
	if !bindJSON(c, &req) {
		return
	}

	hosp, err := h.hospitalSvc.UpdateHospital(c.Request.Context(), id, &hospital.UpdateCommand{
		Name:      req.Name,
		City:      req.City,
		Address:   req.Address,
		Phone:     req.Phone,
		TotalBeds: req.TotalBeds,
	}, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, hosp)
}
