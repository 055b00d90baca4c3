package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carelink/carelink-api/internal/domain/patient"
	"github.com/carelink/carelink-api/internal/service"
)

type ProfileHandler struct {
	profileSvc *service.ProfileService
}

func NewProfileHandler(profileSvc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}

	p, err := h.profileSvc.GetProfile(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

type updateProfileRequest struct {
	DateOfBirth      *time.Time                `json:"date_of_birth"`
	Gender           *patient.Gender           `json:"gender"`
	BloodType        *patient.BloodType        `json:"blood_type"`
	MedicalHistory   *string                   `json:"medical_history"`
	Allergies        *[]string                 `json:"allergies"`
	Address          *string                   `json:"address"`
	City             *string                   `json:"city"`
	EmergencyContact *patient.EmergencyContact `json:"emergency_contact"`
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.profileSvc.UpdateProfile(c.Request.Context(), claims, &patient.UpdateProfileCommand{
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		BloodType:        req.BloodType,
		MedicalHistory:   req.MedicalHistory,
		Allergies:        req.Allergies,
		Address:          req.Address,
		City:             req.City,
		EmergencyContact: req.EmergencyContact,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}
