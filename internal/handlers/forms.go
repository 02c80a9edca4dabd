package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"github.com/diewo77/ai-talent-hub/internal/services"
	"github.com/diewo77/ai-talent-hub/validation"
)

// formParser collects conversion errors while reading typed form values.
type formParser struct {
	r *http.Request
	v validation.Violations
}

func newFormParser(r *http.Request) *formParser {
	_ = r.ParseForm()
	return &formParser{r: r, v: validation.Violations{}}
}

func (p *formParser) value(key string) string {
	return strings.TrimSpace(p.r.FormValue(key))
}

func (p *formParser) checked(key string) bool {
	switch p.r.FormValue(key) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// number returns nil for an empty value.
func (p *formParser) number(key string) *float64 {
	raw := p.value(key)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.v.Add(key, "invalid_number")
		return nil
	}
	return &f
}

func (p *formParser) integer(key string) *int {
	raw := p.value(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.v.Add(key, "invalid_number")
		return nil
	}
	return &n
}

// date parses an HTML date input (YYYY-MM-DD).
func (p *formParser) date(key string) *time.Time {
	raw := p.value(key)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		p.v.Add(key, "invalid_date")
		return nil
	}
	return &t
}

// list splits a comma separated value, dropping blanks.
func (p *formParser) list(key string) []string {
	var out []string
	for _, part := range strings.Split(p.r.FormValue(key), ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// optional returns a pointer to the trimmed value only when the field was
// submitted.
func (p *formParser) optional(key string) *string {
	if _, ok := p.r.PostForm[key]; !ok {
		return nil
	}
	s := p.value(key)
	return &s
}

// err returns the conversion violations, nil when there are none.
func (p *formParser) err() error {
	if p.v.Empty() {
		return nil
	}
	return apperr.Validation(p.v)
}

func parseCompanyForm(p *formParser) services.CompanyInput {
	return services.CompanyInput{
		Name:         p.value("name"),
		Description:  p.value("description"),
		Logo:         p.value("logo"),
		Website:      p.value("website"),
		Type:         models.CompanyType(p.value("type")),
		Size:         models.CompanySize(p.value("size")),
		FoundedYear:  p.integer("founded_year"),
		Headquarters: p.value("headquarters"),
		Locations:    p.list("locations"),
		LinkedinURL:  p.value("linkedin_url"),
		TwitterURL:   p.value("twitter_url"),
		GithubURL:    p.value("github_url"),
	}
}

func parseAdminForm(p *formParser) services.AdminInput {
	return services.AdminInput{
		Email:     p.value("email"),
		Password:  p.r.FormValue("password"),
		FirstName: p.value("first_name"),
		LastName:  p.value("last_name"),
		Username:  p.value("username"),
	}
}

func parseJobForm(p *formParser) services.JobInput {
	in := services.JobInput{
		Title:                p.value("title"),
		Slug:                 p.value("slug"),
		Description:          p.value("description"),
		Requirements:         p.value("requirements"),
		Responsibilities:     p.value("responsibilities"),
		Benefits:             p.value("benefits"),
		ExperienceLevel:      models.ExperienceLevel(p.value("experience_level")),
		EmploymentType:       models.EmploymentType(p.value("employment_type")),
		Location:             p.value("location"),
		IsRemote:             p.checked("is_remote"),
		VisaSponsorship:      p.checked("visa_sponsorship"),
		EquityOffered:        p.checked("equity_offered"),
		SalaryMin:            p.number("salary_min"),
		SalaryMax:            p.number("salary_max"),
		SalaryCurrency:       p.value("salary_currency"),
		AIDomains:            p.list("ai_domains"),
		ResearchComponent:    p.checked("research_component"),
		PublicationsRequired: p.checked("publications_required"),
		ApplicationDeadline:  p.date("application_deadline"),
		StartDate:            p.date("start_date"),
	}
	in.Skills = models.SkillSet{
		Programming: p.list("skills_programming"),
		Frameworks:  p.list("skills_frameworks"),
		Domains:     p.list("skills_domains"),
		Tools:       p.list("skills_tools"),
	}
	if years := p.integer("min_years_experience"); years != nil {
		in.Skills.MinYearsExperience = *years
	}
	return in
}

func parseProfileForm(p *formParser) services.UserUpdate {
	return services.UserUpdate{
		Email:           p.optional("email"),
		Username:        p.optional("username"),
		Name:            p.optional("name"),
		FirstName:       p.optional("first_name"),
		LastName:        p.optional("last_name"),
		Image:           p.optional("image"),
		Bio:             p.optional("bio"),
		Location:        p.optional("location"),
		Timezone:        p.optional("timezone"),
		GithubURL:       p.optional("github_url"),
		LinkedinURL:     p.optional("linkedin_url"),
		PersonalWebsite: p.optional("personal_website"),
	}
}

// formOptions are the enumerations offered by select inputs.
func formOptions() map[string]any {
	return map[string]any{
		"ExperienceLevels": models.Strings(models.ExperienceLevels),
		"EmploymentTypes":  models.Strings(models.EmploymentTypes),
		"CompanyTypes":     models.Strings(models.CompanyTypes),
		"CompanySizes":     models.Strings(models.CompanySizes),
		"JobStatuses":      models.Strings(models.JobStatuses),
		"MemberRoles":      models.Strings(models.MemberRoles),
		"SignupRoles":      models.Strings(models.SignupRoles),
	}
}

// withOptions merges the select options into data.
func withOptions(data map[string]any) map[string]any {
	for k, v := range formOptions() {
		data[k] = v
	}
	return data
}
