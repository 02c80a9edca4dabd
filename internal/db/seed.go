package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/ai-talent-hub/auth"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Demo credentials created by Seed.
const (
	DemoAdminEmail     = "admin@deepfield.ai"
	DemoCandidateEmail = "ada@example.com"
	DemoPassword       = "password123"
	demoCompanyName    = "Deepfield AI"
)

type seedJob struct {
	title  string
	level  models.ExperienceLevel
	kind   models.EmploymentType
	remote bool
	status models.JobStatus
	skills models.SkillSet
}

var demoJobs = []seedJob{
	{
		title: "Senior ML Engineer", level: models.ExperienceSenior, kind: models.EmploymentFullTime,
		remote: true, status: models.JobActive,
		skills: models.SkillSet{Programming: []string{"Python", "Go"}, Frameworks: []string{"PyTorch"}, MinYearsExperience: 5},
	},
	{
		title: "Research Intern, LLM Evaluation", level: models.ExperienceIntern, kind: models.EmploymentInternship,
		status: models.JobActive,
		skills: models.SkillSet{Programming: []string{"Python"}, Domains: []string{"NLP"}},
	},
	{
		title: "Staff Inference Engineer", level: models.ExperiencePrincipal, kind: models.EmploymentFullTime,
		remote: true, status: models.JobDraft,
		skills: models.SkillSet{Programming: []string{"C++", "CUDA"}, Tools: []string{"Triton"}},
	},
}

// Seed initializes the database with demo data. Running it twice is a no-op.
// Should be called after Migrate.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		hash, err := auth.HashPassword(DemoPassword)
		if err != nil {
			return err
		}

		admin, err := firstOrCreateUser(tx, models.User{Email: DemoAdminEmail, Name: "Grace Hopper", Password: hash, Role: models.RoleAdmin})
		if err != nil {
			return err
		}
		if _, err := firstOrCreateUser(tx, models.User{Email: DemoCandidateEmail, Name: "Ada Lovelace", Password: hash, Role: models.RoleAIEngineer}); err != nil {
			return err
		}

		var company models.Company
		err = tx.Where("name = ?", demoCompanyName).First(&company).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			company = models.Company{
				Name:         demoCompanyName,
				Slug:         "deepfield-ai",
				Description:  "Applied research lab building evaluation tooling for language models.",
				Website:      "https://deepfield.example",
				Type:         models.CompanyStartup,
				Size:         models.CompanySize11To50,
				Headquarters: "Paris",
				Locations:    datatypes.JSONSlice[string]{"Paris", "Remote"},
				CreatorID:    admin.ID,
			}
			if err := tx.Create(&company).Error; err != nil {
				return fmt.Errorf("seed company: %w", err)
			}
		} else if err != nil {
			return err
		}

		if admin.CompanyID == nil {
			if err := tx.Model(&admin).Update("company_id", company.ID).Error; err != nil {
				return err
			}
		}

		var members int64
		tx.Model(&models.CompanyMember{}).Where("company_id = ? AND user_id = ?", company.ID, admin.ID).Count(&members)
		if members == 0 {
			now := time.Now()
			m := models.CompanyMember{CompanyID: company.ID, UserID: admin.ID, Role: models.MemberAdmin, Status: models.MemberActive, JoinedAt: &now}
			m.GrantAll()
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("seed member: %w", err)
			}
		}

		for _, sj := range demoJobs {
			var count int64
			tx.Model(&models.Job{}).Where("title = ?", sj.title).Count(&count)
			if count > 0 {
				continue
			}
			job := models.Job{
				CompanyID:       company.ID,
				CreatedBy:       admin.ID,
				Title:           sj.title,
				Slug:            models.Slugify(sj.title),
				Description:     sj.title + " at " + demoCompanyName + ".",
				ExperienceLevel: sj.level,
				EmploymentType:  sj.kind,
				Location:        "Paris",
				IsRemote:        sj.remote,
				RequiredSkills:  datatypes.NewJSONType(sj.skills),
				AIDomains:       datatypes.JSONSlice[string]{},
				Status:          sj.status,
			}
			if sj.status == models.JobActive {
				now := time.Now()
				job.PublishedAt = &now
			}
			if err := tx.Create(&job).Error; err != nil {
				return fmt.Errorf("seed job %q: %w", sj.title, err)
			}
		}
		return nil
	})
}

func firstOrCreateUser(tx *gorm.DB, u models.User) (models.User, error) {
	var existing models.User
	err := tx.Where("email = ?", u.Email).First(&existing).Error
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return existing, err
	}
	if err := tx.Create(&u).Error; err != nil {
		return u, fmt.Errorf("seed user %s: %w", u.Email, err)
	}
	return u, nil
}
