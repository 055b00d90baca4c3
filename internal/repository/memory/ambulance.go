package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carelink/carelink-api/internal/domain/ambulance"
)

type AmbulanceRepository struct {
	mu         sync.Mutex
	ambulances map[uuid.UUID]*ambulance.Ambulance
	bookings   map[uuid.UUID]*ambulance.Booking
}

func NewAmbulanceRepository() *AmbulanceRepository {
	return &AmbulanceRepository{
		ambulances: make(map[uuid.UUID]*ambulance.Ambulance),
		bookings:   make(map[uuid.UUID]*ambulance.Booking),
	}
}

func (r *AmbulanceRepository) CreateAmbulance(_ context.Context, a *ambulance.Ambulance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	cp := *a
	r.ambulances[a.ID] = &cp
	return nil
}

func (r *AmbulanceRepository) ListAvailable(_ context.Context) ([]*ambulance.Ambulance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.availableLocked(), nil
}

func (r *AmbulanceRepository) availableLocked() []*ambulance.Ambulance {
	var available []*ambulance.Ambulance
	for _, a := range r.ambulances {
		if a.Available {
			cp := *a
			available = append(available, &cp)
		}
	}
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].CreatedAt.Before(available[j].CreatedAt)
	})
	return available
}

// ClaimFirstAvailable mirrors the transactional claim: under one lock the
// first available ambulance is flagged busy and the booking stored.
func (r *AmbulanceRepository) ClaimFirstAvailable(_ context.Context, b *ambulance.Booking) (*ambulance.Ambulance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	available := r.availableLocked()
	if len(available) == 0 {
		return nil, ambulance.ErrNoAmbulanceAvailable
	}

	claimed := r.ambulances[available[0].ID]
	claimed.Available = false

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	b.AmbulanceID = claimed.ID
	cp := *b
	r.bookings[b.ID] = &cp

	result := *claimed
	b.Ambulance = &result
	return &result, nil
}

func (r *AmbulanceRepository) GetBookingByID(_ context.Context, id uuid.UUID) (*ambulance.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ambulance.ErrBookingNotFound
	}
	cp := *b
	if amb, ok := r.ambulances[b.AmbulanceID]; ok {
		ambCp := *amb
		cp.Ambulance = &ambCp
	}
	return &cp, nil
}

func (r *AmbulanceRepository) UpdateBookingStatus(_ context.Context, b *ambulance.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[b.ID]
	if !ok {
		return ambulance.ErrBookingNotFound
	}
	stored.Status = b.Status

	if b.Status.IsTerminal() {
		if amb, ok := r.ambulances[stored.AmbulanceID]; ok {
			amb.Available = true
			ambCp := *amb
			b.Ambulance = &ambCp
		}
	}
	return nil
}

func (r *AmbulanceRepository) ListBookings(_ context.Context, q *ambulance.ListBookingsQuery) (*ambulance.PagedBookings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*ambulance.Booking
	for _, b := range r.bookings {
		if q.PatientID != nil && b.PatientID != *q.PatientID {
			continue
		}
		if q.Status != nil && b.Status != *q.Status {
			continue
		}
		if q.HospitalID != nil {
			amb, ok := r.ambulances[b.AmbulanceID]
			if !ok || amb.HospitalID != *q.HospitalID {
				continue
			}
		}
		cp := *b
		if amb, ok := r.ambulances[b.AmbulanceID]; ok {
			ambCp := *amb
			cp.Ambulance = &ambCp
		}
		matched = append(matched, &cp)
	}
	sortByCreatedDesc(matched, func(b *ambulance.Booking) time.Time { return b.CreatedAt })

	total := int64(len(matched))
	return &ambulance.PagedBookings{
		Bookings:   paginate(matched, q.Page, q.PageSize),
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}
