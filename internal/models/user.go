package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an authenticated account, candidate or company staff.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email    string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username *string `gorm:"uniqueIndex;size:100" json:"username,omitempty"`
	Name     string  `gorm:"size:255" json:"name,omitempty"`
	// FirstName keeps the legacy first_name column name.
	FirstName string `gorm:"column:first_name;size:100" json:"first_name,omitempty"`
	LastName  string `gorm:"size:100" json:"last_name,omitempty"`
	Password  string `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	Role      Role   `gorm:"size:20;not null;default:'AI_ENGINEER';index" json:"role"`

	// CompanyID is the user's company affiliation. An ADMIN with a
	// CompanyID administers that company.
	CompanyID *string  `gorm:"size:36;index" json:"company_id,omitempty"`
	Company   *Company `gorm:"foreignKey:CompanyID" json:"-"`

	Image           string     `gorm:"size:500" json:"image,omitempty"`
	Bio             string     `gorm:"type:text" json:"bio,omitempty"`
	Location        string     `gorm:"size:200" json:"location,omitempty"`
	Timezone        string     `gorm:"size:100" json:"timezone,omitempty"`
	GithubURL       string     `gorm:"size:500" json:"github_url,omitempty"`
	LinkedinURL     string     `gorm:"size:500" json:"linkedin_url,omitempty"`
	PersonalWebsite string     `gorm:"size:500" json:"personal_website,omitempty"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName returns the best human readable name available.
func (u *User) DisplayName() string {
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// AffiliatedCompanyID returns the company id or "" when unaffiliated.
func (u *User) AffiliatedCompanyID() string {
	if u.CompanyID == nil {
		return ""
	}
	return *u.CompanyID
}

// IsCompanyAdmin reports whether the user administers a company.
func (u *User) IsCompanyAdmin() bool {
	return u.Role == RoleAdmin && u.AffiliatedCompanyID() != ""
}
