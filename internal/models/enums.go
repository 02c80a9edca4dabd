package models

import "slices"

// Role is the global classification of a user.
type Role string

const (
	RoleAIEngineer Role = "AI_ENGINEER"
	RoleRecruiter  Role = "RECRUITER"
	RoleResearcher Role = "RESEARCHER"
	RoleCompanyHR  Role = "COMPANY_HR"
	RoleAdmin      Role = "ADMIN"
)

// Roles lists every role. SignupRoles excludes ADMIN, which is only
// granted through company registration.
var (
	Roles       = []Role{RoleAIEngineer, RoleRecruiter, RoleResearcher, RoleCompanyHR, RoleAdmin}
	SignupRoles = []Role{RoleAIEngineer, RoleRecruiter, RoleResearcher, RoleCompanyHR}
)

func (r Role) Valid() bool { return slices.Contains(Roles, r) }

type ExperienceLevel string

const (
	ExperienceIntern    ExperienceLevel = "INTERN"
	ExperienceJunior    ExperienceLevel = "JUNIOR"
	ExperienceMiddle    ExperienceLevel = "MIDDLE"
	ExperienceSenior    ExperienceLevel = "SENIOR"
	ExperienceLead      ExperienceLevel = "LEAD"
	ExperiencePrincipal ExperienceLevel = "PRINCIPAL"
)

var ExperienceLevels = []ExperienceLevel{
	ExperienceIntern, ExperienceJunior, ExperienceMiddle,
	ExperienceSenior, ExperienceLead, ExperiencePrincipal,
}

func (e ExperienceLevel) Valid() bool { return slices.Contains(ExperienceLevels, e) }

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "FULL_TIME"
	EmploymentPartTime   EmploymentType = "PART_TIME"
	EmploymentContract   EmploymentType = "CONTRACT"
	EmploymentFreelance  EmploymentType = "FREELANCE"
	EmploymentInternship EmploymentType = "INTERNSHIP"
)

var EmploymentTypes = []EmploymentType{
	EmploymentFullTime, EmploymentPartTime, EmploymentContract,
	EmploymentFreelance, EmploymentInternship,
}

func (e EmploymentType) Valid() bool { return slices.Contains(EmploymentTypes, e) }

// JobStatus is the publication state of a job. Transitions between
// states are not restricted.
type JobStatus string

const (
	JobDraft  JobStatus = "DRAFT"
	JobActive JobStatus = "ACTIVE"
	JobPaused JobStatus = "PAUSED"
	JobClosed JobStatus = "CLOSED"
	JobFilled JobStatus = "FILLED"
)

var JobStatuses = []JobStatus{JobDraft, JobActive, JobPaused, JobClosed, JobFilled}

func (s JobStatus) Valid() bool { return slices.Contains(JobStatuses, s) }

// Closed reports whether the job no longer accepts candidates.
func (s JobStatus) Closed() bool { return s == JobClosed || s == JobFilled }

type CompanyType string

const (
	CompanyStartup     CompanyType = "STARTUP"
	CompanyScaleUp     CompanyType = "SCALE_UP"
	CompanyEnterprise  CompanyType = "ENTERPRISE"
	CompanyConsultancy CompanyType = "CONSULTANCY"
	CompanyResearchLab CompanyType = "RESEARCH_LAB"
	CompanyUniversity  CompanyType = "UNIVERSITY"
)

var CompanyTypes = []CompanyType{
	CompanyStartup, CompanyScaleUp, CompanyEnterprise,
	CompanyConsultancy, CompanyResearchLab, CompanyUniversity,
}

func (c CompanyType) Valid() bool { return slices.Contains(CompanyTypes, c) }

type CompanySize string

const (
	CompanySize1To10     CompanySize = "1_10"
	CompanySize11To50    CompanySize = "11_50"
	CompanySize51To200   CompanySize = "51_200"
	CompanySize201To1000 CompanySize = "201_1000"
	CompanySize1001To5k  CompanySize = "1001_5000"
	CompanySize5kPlus    CompanySize = "5000_PLUS"
)

var CompanySizes = []CompanySize{
	CompanySize1To10, CompanySize11To50, CompanySize51To200,
	CompanySize201To1000, CompanySize1001To5k, CompanySize5kPlus,
}

func (c CompanySize) Valid() bool { return slices.Contains(CompanySizes, c) }

// MemberRole is a user's role inside one company, distinct from the
// global Role.
type MemberRole string

const (
	MemberAdmin     MemberRole = "ADMIN"
	MemberRecruiter MemberRole = "RECRUITER"
	MemberHRManager MemberRole = "HR_MANAGER"
	MemberEmployee  MemberRole = "EMPLOYEE"
)

var MemberRoles = []MemberRole{MemberAdmin, MemberRecruiter, MemberHRManager, MemberEmployee}

func (m MemberRole) Valid() bool { return slices.Contains(MemberRoles, m) }

type MemberStatus string

const (
	MemberActive  MemberStatus = "ACTIVE"
	MemberInvited MemberStatus = "INVITED"
	MemberLeft    MemberStatus = "LEFT"
)

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationReviewing ApplicationStatus = "REVIEWING"
	ApplicationInterview ApplicationStatus = "INTERVIEW"
	ApplicationOffered   ApplicationStatus = "OFFERED"
	ApplicationAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationWithdrawn ApplicationStatus = "WITHDRAWN"
)

// Strings converts an enumeration slice for validators and form options.
func Strings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
