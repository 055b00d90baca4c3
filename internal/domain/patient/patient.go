package patient

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

type BloodType string

const (
	BloodTypeAPos    BloodType = "A+"
	BloodTypeANeg    BloodType = "A-"
	BloodTypeBPos    BloodType = "B+"
	BloodTypeBNeg    BloodType = "B-"
	BloodTypeABPos   BloodType = "AB+"
	BloodTypeABNeg   BloodType = "AB-"
	BloodTypeOPos    BloodType = "O+"
	BloodTypeONeg    BloodType = "O-"
	BloodTypeUnknown BloodType = "unknown"
)

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

// Profile is the patient-specific 1:1 extension of a user account.
// The primary key is the owning user's ID.
type Profile struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	DateOfBirth *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Gender      Gender     `gorm:"column:gender;type:varchar(20);default:'unknown'" json:"gender"`
	BloodType   BloodType  `gorm:"column:blood_type;type:varchar(5);default:'unknown'" json:"blood_type"`

	MedicalHistory string   `gorm:"column:medical_history;type:text" json:"medical_history"`
	Allergies      []string `gorm:"column:allergies;serializer:json" json:"allergies"`

	Address string `gorm:"column:address;type:text" json:"address"`
	City    string `gorm:"column:city;type:varchar(100)" json:"city"`

	EmergencyContact *EmergencyContact `gorm:"column:emergency_contact;serializer:json" json:"emergency_contact,omitempty"`
}

func (Profile) TableName() string {
	return "clinical.patient_profiles"
}

func (p *Profile) Age(now time.Time) int {
	if p.DateOfBirth == nil {
		return 0
	}
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

type UpdateProfileCommand struct {
	DateOfBirth      *time.Time
	Gender           *Gender
	BloodType        *BloodType
	MedicalHistory   *string
	Allergies        *[]string
	Address          *string
	City             *string
	EmergencyContact *EmergencyContact
}
