package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carelink/carelink-api/internal/domain/appointment"
	"github.com/carelink/carelink-api/internal/domain/bedbooking"
	"github.com/carelink/carelink-api/internal/domain/doctor"
	"github.com/carelink/carelink-api/internal/domain/hospital"
	"github.com/carelink/carelink-api/internal/domain/patient"
	"github.com/carelink/carelink-api/internal/domain/review"
)

type PatientRepository struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*patient.Profile
}

func NewPatientRepository() *PatientRepository {
	return &PatientRepository{profiles: make(map[uuid.UUID]*patient.Profile)}
}

func (r *PatientRepository) Upsert(_ context.Context, p *patient.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

func (r *PatientRepository) GetByUserID(_ context.Context, userID uuid.UUID) (*patient.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, patient.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

type DoctorRepository struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*doctor.Profile
	// Name/email come from the users table in production; tests seed them here.
	Names  map[uuid.UUID]string
	Emails map[uuid.UUID]string
}

func NewDoctorRepository() *DoctorRepository {
	return &DoctorRepository{
		profiles: make(map[uuid.UUID]*doctor.Profile),
		Names:    make(map[uuid.UUID]string),
		Emails:   make(map[uuid.UUID]string),
	}
}

func (r *DoctorRepository) Upsert(_ context.Context, p *doctor.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

func (r *DoctorRepository) GetByUserID(_ context.Context, userID uuid.UUID) (*doctor.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	return &doctor.Listing{Profile: *p, Name: r.Names[userID], Email: r.Emails[userID]}, nil
}

func (r *DoctorRepository) List(_ context.Context, q *doctor.ListQuery) (*doctor.PagedListings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*doctor.Listing
	for id, p := range r.profiles {
		if q.Speciality != "" && !strings.EqualFold(p.Speciality, q.Speciality) {
			continue
		}
		if q.City != "" && !strings.EqualFold(p.City, q.City) {
			continue
		}
		name := r.Names[id]
		if q.Search != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, &doctor.Listing{Profile: *p, Name: name, Email: r.Emails[id]})
	}

	total := int64(len(matched))
	return &doctor.PagedListings{
		Doctors:    paginate(matched, q.Page, q.PageSize),
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

func (r *DoctorRepository) SetRating(_ context.Context, userID uuid.UUID, avg float64, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return doctor.ErrDoctorNotFound
	}
	p.RatingAvg = avg
	p.RatingCount = count
	return nil
}

type HospitalRepository struct {
	mu        sync.Mutex
	hospitals map[uuid.UUID]*hospital.Hospital
}

func NewHospitalRepository() *HospitalRepository {
	return &HospitalRepository{hospitals: make(map[uuid.UUID]*hospital.Hospital)}
}

func (r *HospitalRepository) Create(_ context.Context, h *hospital.Hospital) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	cp := *h
	r.hospitals[h.ID] = &cp
	return nil
}

func (r *HospitalRepository) GetByID(_ context.Context, id uuid.UUID) (*hospital.Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hospitals[id]
	if !ok {
		return nil, hospital.ErrHospitalNotFound
	}
	cp := *h
	return &cp, nil
}

func (r *HospitalRepository) GetByAdminUserID(_ context.Context, userID uuid.UUID) (*hospital.Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.hospitals {
		if h.AdminUserID != nil && *h.AdminUserID == userID {
			cp := *h
			return &cp, nil
		}
	}
	return nil, hospital.ErrHospitalNotFound
}

func (r *HospitalRepository) Update(_ context.Context, id uuid.UUID, cmd *hospital.UpdateCommand) (*hospital.Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hospitals[id]
	if !ok {
		return nil, hospital.ErrHospitalNotFound
	}
	if cmd.Name != nil {
		h.Name = *cmd.Name
	}
	if cmd.City != nil {
		h.City = *cmd.City
	}
	if cmd.Address != nil {
		h.Address = *cmd.Address
	}
	if cmd.Phone != nil {
		h.Phone = *cmd.Phone
	}
	if cmd.TotalBeds != nil {
		h.TotalBeds = *cmd.TotalBeds
	}
	cp := *h
	return &cp, nil
}

func (r *HospitalRepository) List(_ context.Context, q *hospital.ListQuery) (*hospital.PagedHospitals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*hospital.Hospital
	for _, h := range r.hospitals {
		if q.City != "" && !strings.EqualFold(h.City, q.City) {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(h.Name), strings.ToLower(q.Search)) {
			continue
		}
		cp := *h
		matched = append(matched, &cp)
	}

	total := int64(len(matched))
	return &hospital.PagedHospitals{
		Hospitals:  paginate(matched, q.Page, q.PageSize),
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

type AppointmentRepository struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*appointment.Appointment
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{appointments: make(map[uuid.UUID]*appointment.Appointment)}
}

func (r *AppointmentRepository) Create(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	cp := *a
	r.appointments[a.ID] = &cp
	return nil
}

func (r *AppointmentRepository) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *AppointmentRepository) UpdateStatus(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.appointments[a.ID]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	stored.Status = a.Status
	stored.CancelledAt = a.CancelledAt
	stored.CancellationReason = a.CancellationReason
	return nil
}

func (r *AppointmentRepository) List(_ context.Context, q *appointment.ListQuery) (*appointment.PagedAppointments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*appointment.Appointment
	for _, a := range r.appointments {
		if q.PatientID != nil && a.PatientID != *q.PatientID {
			continue
		}
		if q.DoctorID != nil && a.DoctorID != *q.DoctorID {
			continue
		}
		if q.Status != nil && a.Status != *q.Status {
			continue
		}
		if q.DateFrom != nil && a.ScheduledAt.Before(*q.DateFrom) {
			continue
		}
		if q.DateTo != nil && !a.ScheduledAt.Before(*q.DateTo) {
			continue
		}
		cp := *a
		matched = append(matched, &cp)
	}
	sortByCreatedDesc(matched, func(a *appointment.Appointment) time.Time { return a.CreatedAt })

	total := int64(len(matched))
	return &appointment.PagedAppointments{
		Appointments: paginate(matched, q.Page, q.PageSize),
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
	}, nil
}

type BedBookingRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bedbooking.BedBooking
}

func NewBedBookingRepository() *BedBookingRepository {
	return &BedBookingRepository{bookings: make(map[uuid.UUID]*bedbooking.BedBooking)}
}

func (r *BedBookingRepository) Create(_ context.Context, b *bedbooking.BedBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *BedBookingRepository) GetByID(_ context.Context, id uuid.UUID) (*bedbooking.BedBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bedbooking.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *BedBookingRepository) Update(_ context.Context, id uuid.UUID, cmd *bedbooking.UpdateCommand) (*bedbooking.BedBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bedbooking.ErrBookingNotFound
	}
	if cmd.Status != nil {
		b.Status = *cmd.Status
	}
	if cmd.DischargeDate != nil {
		b.DischargeDate = cmd.DischargeDate
	}
	if cmd.TotalAmount != nil {
		b.TotalAmount = *cmd.TotalAmount
	}
	cp := *b
	return &cp, nil
}

func (r *BedBookingRepository) List(_ context.Context, q *bedbooking.ListQuery) (*bedbooking.PagedBedBookings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*bedbooking.BedBooking
	for _, b := range r.bookings {
		if q.PatientID != nil && b.PatientID != *q.PatientID {
			continue
		}
		if q.HospitalID != nil && b.HospitalID != *q.HospitalID {
			continue
		}
		if q.Status != nil && b.Status != *q.Status {
			continue
		}
		cp := *b
		matched = append(matched, &cp)
	}
	sortByCreatedDesc(matched, func(b *bedbooking.BedBooking) time.Time { return b.CreatedAt })

	total := int64(len(matched))
	return &bedbooking.PagedBedBookings{
		Bookings:   paginate(matched, q.Page, q.PageSize),
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

func (r *BedBookingRepository) CountActive(_ context.Context, hospitalID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, b := range r.bookings {
		if b.HospitalID == hospitalID && b.Status == bedbooking.StatusActive {
			count++
		}
	}
	return count, nil
}

type ReviewRepository struct {
	mu      sync.Mutex
	reviews []*review.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) Create(_ context.Context, rev *review.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rev.ID == uuid.Nil {
		rev.ID = uuid.New()
	}
	rev.CreatedAt = time.Now()
	cp := *rev
	r.reviews = append(r.reviews, &cp)
	return nil
}

func (r *ReviewRepository) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*review.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*review.Review
	for _, rev := range r.reviews {
		if rev.DoctorID == doctorID {
			cp := *rev
			matched = append(matched, &cp)
		}
	}
	return matched, nil
}

func (r *ReviewRepository) Aggregate(_ context.Context, doctorID uuid.UUID) (float64, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum, count := 0, 0
	for _, rev := range r.reviews {
		if rev.DoctorID == doctorID {
			sum += rev.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}
