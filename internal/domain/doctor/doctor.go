package doctor

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleSlot is one recurring weekly availability window.
type ScheduleSlot struct {
	Weekday   time.Weekday `json:"weekday"`
	StartTime string       `json:"start_time"` // "09:00"
	EndTime   string       `json:"end_time"`   // "17:00"
}

// Profile is the doctor-specific 1:1 extension of a user account,
// keyed by the owning user's ID.
type Profile struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	Speciality      string  `gorm:"column:speciality;type:varchar(100);index" json:"speciality"`
	Qualifications  string  `gorm:"column:qualifications;type:text" json:"qualifications"`
	ConsultationFee float64 `gorm:"column:consultation_fee;not null;default:0" json:"consultation_fee"`
	ExperienceYears int     `gorm:"column:experience_years;not null;default:0" json:"experience_years"`
	Bio             string  `gorm:"column:bio;type:text" json:"bio"`
	City            string  `gorm:"column:city;type:varchar(100);index" json:"city"`

	Schedule []ScheduleSlot `gorm:"column:schedule;serializer:json" json:"schedule"`

	// Denormalized from reviews; recomputed on every review write.
	RatingAvg   float64 `gorm:"column:rating_avg;not null;default:0" json:"rating_avg"`
	RatingCount int     `gorm:"column:rating_count;not null;default:0" json:"rating_count"`
}

func (Profile) TableName() string {
	return "clinical.doctor_profiles"
}

type UpdateProfileCommand struct {
	Speciality      *string
	Qualifications  *string
	ConsultationFee *float64
	ExperienceYears *int
	Bio             *string
	City            *string
	Schedule        *[]ScheduleSlot
}

type ListQuery struct {
	Speciality string
	City       string
	Search     string // matches doctor name
	Page       int
	PageSize   int
}

// Listing joins the profile with the public fields of its user row.
type Listing struct {
	Profile
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PagedListings struct {
	Doctors    []*Listing `json:"doctors"`
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}
