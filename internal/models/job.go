package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SkillSet describes the skills a job asks for.
type SkillSet struct {
	Programming        []string `json:"programming,omitempty"`
	Frameworks         []string `json:"frameworks,omitempty"`
	Domains            []string `json:"domains,omitempty"`
	Tools              []string `json:"tools,omitempty"`
	MinYearsExperience int      `json:"minYearsExperience,omitempty"`
}

// Job is a position posted by a company.
type Job struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// CompanyID owns the job; only that company's admins may manage it.
	CompanyID string   `gorm:"size:36;not null;index" json:"company_id"`
	Company   *Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
	CreatedBy string   `gorm:"size:36;not null;index" json:"created_by"`

	Title            string `gorm:"uniqueIndex;size:300;not null" json:"title"`
	Slug             string `gorm:"uniqueIndex;size:300;not null" json:"slug"`
	Description      string `gorm:"type:text;not null" json:"description"`
	Requirements     string `gorm:"type:text" json:"requirements,omitempty"`
	Responsibilities string `gorm:"type:text" json:"responsibilities,omitempty"`
	Benefits         string `gorm:"type:text" json:"benefits,omitempty"`

	ExperienceLevel ExperienceLevel `gorm:"size:20;not null" json:"experience_level"`
	EmploymentType  EmploymentType  `gorm:"size:20;not null" json:"employment_type"`
	Location        string          `gorm:"size:200" json:"location,omitempty"`
	IsRemote        bool            `gorm:"not null;default:false" json:"is_remote"`
	VisaSponsorship bool            `gorm:"not null;default:false" json:"visa_sponsorship"`
	EquityOffered   bool            `gorm:"not null;default:false" json:"equity_offered"`

	SalaryMin      *float64 `gorm:"type:decimal(10,2)" json:"salary_min,omitempty"`
	SalaryMax      *float64 `gorm:"type:decimal(10,2)" json:"salary_max,omitempty"`
	SalaryCurrency string   `gorm:"size:3;default:'USD'" json:"salary_currency"`

	RequiredSkills       datatypes.JSONType[SkillSet] `json:"required_skills"`
	AIDomains            datatypes.JSONSlice[string]  `gorm:"column:ai_domains" json:"ai_domains,omitempty"`
	ResearchComponent    bool                         `gorm:"not null;default:false" json:"research_component"`
	PublicationsRequired bool                         `gorm:"not null;default:false" json:"publications_required"`

	Status            JobStatus `gorm:"size:20;not null;default:'DRAFT';index" json:"status"`
	ViewsCount        int       `gorm:"not null;default:0" json:"views_count"`
	ApplicationsCount int       `gorm:"not null;default:0" json:"applications_count"`

	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	StartDate           *time.Time `json:"start_date,omitempty"`
	PublishedAt         *time.Time `gorm:"index" json:"published_at,omitempty"`
	ClosedAt            *time.Time `json:"closed_at,omitempty"`
}

func (j *Job) BeforeCreate(_ *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

func (j *Job) GetCompanyID() string { return j.CompanyID }

// SalaryRange formats the salary for display, "" when none is set.
func (j *Job) SalaryRange() string {
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil:
		return formatMoney(*j.SalaryMin) + " - " + formatMoney(*j.SalaryMax) + " " + j.SalaryCurrency
	case j.SalaryMin != nil:
		return "from " + formatMoney(*j.SalaryMin) + " " + j.SalaryCurrency
	case j.SalaryMax != nil:
		return "up to " + formatMoney(*j.SalaryMax) + " " + j.SalaryCurrency
	}
	return ""
}
