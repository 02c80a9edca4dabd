package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Company is an employer registered on the board.
type Company struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string                      `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Slug         string                      `gorm:"uniqueIndex;size:200;not null" json:"slug"`
	Description  string                      `gorm:"type:text" json:"description,omitempty"`
	Website      string                      `gorm:"size:500" json:"website,omitempty"`
	Logo         string                      `gorm:"size:500" json:"logo,omitempty"`
	Type         CompanyType                 `gorm:"size:20;not null;default:'STARTUP';index" json:"type"`
	Size         CompanySize                 `gorm:"size:20;not null;default:'1_10'" json:"size"`
	FoundedYear  *int                        `json:"founded_year,omitempty"`
	Headquarters string                      `gorm:"size:200" json:"headquarters,omitempty"`
	Locations    datatypes.JSONSlice[string] `json:"locations,omitempty"`
	LinkedinURL  string                      `gorm:"size:500" json:"linkedin_url,omitempty"`
	TwitterURL   string                      `gorm:"size:500" json:"twitter_url,omitempty"`
	GithubURL    string                      `gorm:"size:500" json:"github_url,omitempty"`

	EmployeeCount *int   `json:"employee_count,omitempty"`
	CreatorID     string `gorm:"size:36;not null;index" json:"creator_id"`
	IsVerified    bool   `gorm:"not null;default:false" json:"is_verified"`
	IsActive      bool   `gorm:"not null;default:true" json:"is_active"`
}

func (c *Company) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// GetCompanyID implements the company-scoped resource contract used by the
// authorization policies.
func (c *Company) GetCompanyID() string { return c.ID }

// CompanyMember links a user to a company with an in-company role.
type CompanyMember struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CompanyID string       `gorm:"size:36;not null;uniqueIndex:idx_company_member" json:"company_id"`
	UserID    string       `gorm:"size:36;not null;uniqueIndex:idx_company_member;index" json:"user_id"`
	User      *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      MemberRole   `gorm:"size:20;not null;default:'EMPLOYEE'" json:"role"`
	Status    MemberStatus `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`

	CanPostJobs           bool `gorm:"not null;default:false" json:"can_post_jobs"`
	CanManageApplications bool `gorm:"not null;default:false" json:"can_manage_applications"`
	CanManageMembers      bool `gorm:"not null;default:false" json:"can_manage_members"`

	InvitedBy *string    `gorm:"size:36" json:"invited_by,omitempty"`
	InvitedAt *time.Time `json:"invited_at,omitempty"`
	JoinedAt  *time.Time `json:"joined_at,omitempty"`
	LeftAt    *time.Time `json:"left_at,omitempty"`
}

func (m *CompanyMember) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *CompanyMember) GetCompanyID() string { return m.CompanyID }

// GrantAll gives the member every in-company permission flag.
func (m *CompanyMember) GrantAll() {
	m.CanPostJobs = true
	m.CanManageApplications = true
	m.CanManageMembers = true
}
