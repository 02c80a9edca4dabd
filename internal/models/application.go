package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application is a candidate's application to a job.
type Application struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	JobID       string `gorm:"size:36;not null;uniqueIndex:idx_application_candidate" json:"job_id"`
	Job         *Job   `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
	CandidateID string `gorm:"size:36;not null;uniqueIndex:idx_application_candidate;index" json:"candidate_id"`

	CoverLetter    string            `gorm:"type:text" json:"cover_letter,omitempty"`
	ResumeURL      string            `gorm:"size:500" json:"resume_url,omitempty"`
	PortfolioURL   string            `gorm:"size:500" json:"portfolio_url,omitempty"`
	Status         ApplicationStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	RecruiterNotes string            `gorm:"type:text" json:"-"`
	ReviewedAt     *time.Time        `json:"reviewed_at,omitempty"`
}

func (a *Application) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Session is the server side record behind a session cookie.
type Session struct {
	ID        string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Token     string    `gorm:"uniqueIndex;size:128;not null"`
	UserID    string    `gorm:"size:36;not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	IPAddress string    `gorm:"size:45"`
	UserAgent string    `gorm:"type:text"`
}

func (s *Session) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
