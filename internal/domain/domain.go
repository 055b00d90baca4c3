package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RolePatient  Role = "PATIENT"
	RoleDoctor   Role = "DOCTOR"
	RoleHospital Role = "HOSPITAL"
)

func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleHospital:
		return true
	}
	return false
}

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"-"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	Email string `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	// Empty for users created through the Google flow.
	PasswordHash string `gorm:"column:password_hash;type:varchar(255)" json:"-"`
	Name         string `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Phone        string `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Role         Role   `gorm:"column:role;type:varchar(20);not null;index" json:"role"`

	// External identity reference; set when the account was linked via OAuth.
	GoogleID *string `gorm:"column:google_id;type:varchar(100);uniqueIndex" json:"-"`

	IsActive    bool       `gorm:"column:is_active;default:true;index" json:"-"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"-"`
}

func (User) TableName() string {
	return "auth.users"
}

// HasPassword reports whether the account supports password login.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionRead   AuditAction = "read"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
	ActionLogin  AuditAction = "login"
)

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	// Who
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	UserRole  Role      `gorm:"column:user_role;type:varchar(20);not null"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(45)"` // Supports IPv6

	// What
	Action       AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(50);index"`

	RequestID  string `gorm:"column:request_id;type:varchar(50);index"`
	StatusCode int    `gorm:"column:status_code"`

	Changes string `gorm:"column:changes;type:jsonb"`
}

func (AuditLog) TableName() string {
	return "audit.logs"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

type Claims struct {
	UserID uuid.UUID `json:"sub"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

// PendingRegistration carries the Google profile between the callback and
// the role-selection step, signed into a short-lived registration token.
type PendingRegistration struct {
	GoogleID string `json:"google_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}
