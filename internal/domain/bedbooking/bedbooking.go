package bedbooking

import (
	"time"

	"github.com/google/uuid"
)

type BedType string

const (
	BedTypeGeneral BedType = "GENERAL"
	BedTypeICU     BedType = "ICU"
	BedTypePrivate BedType = "PRIVATE"
)

func (t BedType) IsValid() bool {
	switch t {
	case BedTypeGeneral, BedTypeICU, BedTypePrivate:
		return true
	}
	return false
}

// Status transitions:
//
//	pending → active → completed
//	pending → cancelled
//	active → cancelled
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type BedBooking struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"-"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	PatientID  uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`
	HospitalID uuid.UUID `gorm:"column:hospital_id;type:uuid;not null;index" json:"hospital_id"`

	BedType       BedType    `gorm:"column:bed_type;type:varchar(20);not null" json:"bed_type"`
	AdmissionDate time.Time  `gorm:"column:admission_date;not null" json:"admission_date"`
	DischargeDate *time.Time `gorm:"column:discharge_date" json:"discharge_date,omitempty"`

	Status Status `gorm:"column:status;type:varchar(20);not null;default:'PENDING';index" json:"status"`

	DailyCharge float64 `gorm:"column:daily_charge;not null;default:0" json:"daily_charge"`
	TotalAmount float64 `gorm:"column:total_amount;not null;default:0" json:"total_amount"`
}

func (BedBooking) TableName() string {
	return "clinical.bed_bookings"
}

func (b *BedBooking) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusPending:   {StatusActive, StatusCancelled},
		StatusActive:    {StatusCompleted, StatusCancelled},
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

// Availability is derived at read time from the booking table, never stored.
// occupied is the live count of ACTIVE bookings for the hospital.
type Availability struct {
	HospitalID    uuid.UUID `json:"hospital_id"`
	HospitalName  string    `json:"hospitalName"`
	TotalBeds     int       `json:"totalBeds"`
	OccupiedBeds  int       `json:"occupiedBeds"`
	AvailableBeds int       `json:"availableBeds"`
}

// Compute clamps at zero: occupancy above capacity means overbooking,
// not negative availability.
func Compute(hospitalID uuid.UUID, hospitalName string, totalBeds, occupied int) *Availability {
	available := totalBeds - occupied
	if available < 0 {
		available = 0
	}
	return &Availability{
		HospitalID:    hospitalID,
		HospitalName:  hospitalName,
		TotalBeds:     totalBeds,
		OccupiedBeds:  occupied,
		AvailableBeds: available,
	}
}

type CreateCommand struct {
	PatientID     uuid.UUID
	HospitalID    uuid.UUID
	BedType       BedType
	AdmissionDate time.Time
	DailyCharge   float64
}

type UpdateCommand struct {
	Status        *Status
	DischargeDate *time.Time
	TotalAmount   *float64
}

type ListQuery struct {
	PatientID  *uuid.UUID
	HospitalID *uuid.UUID
	Status     *Status
	Page       int
	PageSize   int
}

type PagedBedBookings struct {
	Bookings   []*BedBooking `json:"bookings"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}
