package ambulance

import (
	"time"

	"github.com/google/uuid"
)

type Ambulance struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	HospitalID    uuid.UUID `gorm:"column:hospital_id;type:uuid;not null;index" json:"hospital_id"`
	VehicleNumber string    `gorm:"column:vehicle_number;type:varchar(50);uniqueIndex;not null" json:"vehicle_number"`

	// Invariant: false iff the ambulance has exactly one open booking.
	// Only ever mutated in the same transaction as the booking write.
	Available bool `gorm:"column:available;not null;default:true;index" json:"available"`
}

func (Ambulance) TableName() string {
	return "clinical.ambulances"
}

// Status transitions:
//
//	pending → en_route → completed
//	pending → cancelled
//	en_route → cancelled
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusEnRoute   Status = "EN_ROUTE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusEnRoute, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Booking struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"-"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	PatientID   uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`
	AmbulanceID uuid.UUID `gorm:"column:ambulance_id;type:uuid;not null;index" json:"ambulance_id"`

	PickupLocation string `gorm:"column:pickup_location;type:text;not null" json:"pickup_location"`
	Destination    string `gorm:"column:destination;type:text;not null" json:"destination"`

	Status Status  `gorm:"column:status;type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Amount float64 `gorm:"column:amount;not null;default:0" json:"amount"`

	Ambulance *Ambulance `gorm:"foreignKey:AmbulanceID" json:"ambulance,omitempty"`
}

func (Booking) TableName() string {
	return "clinical.ambulance_bookings"
}

func (b *Booking) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusPending:   {StatusEnRoute, StatusCancelled},
		StatusEnRoute:   {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	for _, s := range allowed[b.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

type CreateBookingCommand struct {
	PatientID      uuid.UUID
	PickupLocation string
	Destination    string
	Amount         float64
}

type ListBookingsQuery struct {
	PatientID  *uuid.UUID
	HospitalID *uuid.UUID
	Status     *Status
	Page       int
	PageSize   int
}

type PagedBookings struct {
	Bookings   []*Booking `json:"bookings"`
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}
