package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/carelink/carelink-api/internal/domain/doctor"
	"github.com/carelink/carelink-api/internal/service"
)

type DoctorHandler struct {
	doctorSvc *service.DoctorService
}

func NewDoctorHandler(doctorSvc *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{doctorSvc: doctorSvc}
}

func (h *DoctorHandler) ListDoctors(c *gin.Context) {
	q := &doctor.ListQuery{
		Speciality: c.Query("specialty"),
		City:       c.Query("city"),
		Search:     c.Query("search"),
		Page:       parseQueryInt(c, "page", 1),
		PageSize:   parseQueryInt(c, "page_size", 20),
	}

	result, err := h.doctorSvc.ListDoctors(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, result)
}

func (h *DoctorHandler) GetDoctor(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	listing, err := h.doctorSvc.GetDoctor(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, listing)
}

type updateDoctorRequest struct {
	Speciality      *string                `json:"speciality"`
	Qualifications  *string                `json:"qualifications"`
	ConsultationFee *float64               `json:"consultation_fee"`
	ExperienceYears *int                   `json:"experience_years"`
	Bio             *string                `json:"bio"`
	City            *string                `json:"city"`
	Schedule        *[]doctor.ScheduleSlot `json:"schedule"`
}

func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	listing, err := h.doctorSvc.UpdateDoctor(c.Request.Context(), id, &doctor.UpdateProfileCommand{
		Speciality:      req.Speciality,
		Qualifications:  req.Qualifications,
		ConsultationFee: req.ConsultationFee,
		ExperienceYears: req.ExperienceYears,
		Bio:             req.Bio,
		City:            req.City,
		Schedule:        req.Schedule,
	}, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, listing)
}

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *DoctorHandler) CreateReview(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req createReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	rev, err := h.doctorSvc.CreateReview(c.Request.Context(), id, req.Rating, req.Comment, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, rev)
}

func (h *DoctorHandler) ListReviews(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.doctorSvc.ListReviews(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, reviews)
}
