package hospital

import (
	"time"

	"github.com/google/uuid"
)

type Hospital struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"-"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	Name      string `gorm:"column:name;type:varchar(200);not null" json:"name"`
	City      string `gorm:"column:city;type:varchar(100);index" json:"city"`
	Address   string `gorm:"column:address;type:text" json:"address"`
	Phone     string `gorm:"column:phone;type:varchar(20)" json:"phone"`
	TotalBeds int    `gorm:"column:total_beds;not null;default:0" json:"total_beds"`

	// Account that manages this hospital, when one exists.
	AdminUserID *uuid.UUID `gorm:"column:admin_user_id;type:uuid;uniqueIndex" json:"-"`
}

func (Hospital) TableName() string {
	return "clinical.hospitals"
}

type UpdateCommand struct {
	Name      *string
	City      *string
	Address   *string
	Phone     *string
	TotalBeds *int
}

type ListQuery struct {
	City     string
	Search   string // matches hospital name
	Page     int
	PageSize int
}

type PagedHospitals struct {
	Hospitals  []*Hospital `json:"hospitals"`
	TotalCount int64       `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}
