// AngelaMos | 2026
// dto.go

package job

import (
	"strings"
	"time"
)

type CreateJobRequest struct {
	Title           string   `json:"title"           validate:"required,min=3,max=200"`
	Description     string   `json:"description"     validate:"required,min=10,max=20000"`
	Company         string   `json:"company"         validate:"required,max=200"`
	Location        string   `json:"location"        validate:"omitempty,max=200"`
	EmploymentType  string   `json:"employmentType"  validate:"required,oneof=full-time part-time contract internship freelance"`
	ExperienceLevel string   `json:"experienceLevel" validate:"required,oneof=entry mid senior lead"`
	IsRemote        bool     `json:"isRemote"`
	IsUrgent        bool     `json:"isUrgent"`
	SalaryMin       *int     `json:"salaryMin"       validate:"omitempty,min=0"`
	SalaryMax       *int     `json:"salaryMax"       validate:"omitempty,min=0"`
	SalaryCurrency  string   `json:"salaryCurrency"  validate:"omitempty,len=3,alpha"`
	RequiredSkills  []string `json:"requiredSkills"  validate:"required,min=1,max=50,dive,required,max=100"`
	Benefits        []string `json:"benefits"        validate:"omitempty,max=50,dive,required,max=200"`
}

type UpdateJobRequest struct {
	Title           *string   `json:"title,omitempty"           validate:"omitempty,min=3,max=200"`
	Description     *string   `json:"description,omitempty"     validate:"omitempty,min=10,max=20000"`
	Company         *string   `json:"company,omitempty"         validate:"omitempty,max=200"`
	Location        *string   `json:"location,omitempty"        validate:"omitempty,max=200"`
	EmploymentType  *string   `json:"employmentType,omitempty"  validate:"omitempty,oneof=full-time part-time contract internship freelance"`
	ExperienceLevel *string   `json:"experienceLevel,omitempty" validate:"omitempty,oneof=entry mid senior lead"`
	IsRemote        *bool     `json:"isRemote,omitempty"`
	IsUrgent        *bool     `json:"isUrgent,omitempty"`
	SalaryMin       *int      `json:"salaryMin,omitempty"       validate:"omitempty,min=0"`
	SalaryMax       *int      `json:"salaryMax,omitempty"       validate:"omitempty,min=0"`
	SalaryCurrency  *string   `json:"salaryCurrency,omitempty"  validate:"omitempty,len=3,alpha"`
	RequiredSkills  *[]string `json:"requiredSkills,omitempty"  validate:"omitempty,min=1,max=50,dive,required,max=100"`
	Benefits        *[]string `json:"benefits,omitempty"        validate:"omitempty,max=50,dive,required,max=200"`
	Status          *string   `json:"status,omitempty"          validate:"omitempty,oneof=draft published closed"`
}

type ListJobsParams struct {
	Page            int
	PageSize        int
	Status          string
	EmploymentType  string
	ExperienceLevel string
	Skills          []string
	Location        string
	IsRemote        *bool
	Search          string
}

func (p *ListJobsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}

	skills := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			skills = append(skills, s)
		}
	}
	p.Skills = skills
}

func (p *ListJobsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type JobResponse struct {
	ID               string     `json:"id"`
	RecruiterID      string     `json:"recruiterId"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Company          string     `json:"company"`
	Location         string     `json:"location"`
	EmploymentType   string     `json:"employmentType"`
	ExperienceLevel  string     `json:"experienceLevel"`
	IsRemote         bool       `json:"isRemote"`
	IsUrgent         bool       `json:"isUrgent"`
	SalaryMin        *int       `json:"salaryMin"`
	SalaryMax        *int       `json:"salaryMax"`
	SalaryCurrency   string     `json:"salaryCurrency"`
	RequiredSkills   []string   `json:"requiredSkills"`
	Benefits         []string   `json:"benefits"`
	Status           string     `json:"status"`
	ViewCount        int        `json:"viewCount"`
	ApplicationCount int        `json:"applicationCount"`
	PublishedAt      *time.Time `json:"publishedAt"`
	ClosedAt         *time.Time `json:"closedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type StatsResponse struct {
	ByStatus          map[string]int `json:"byStatus"`
	Total             int            `json:"total"`
	TotalViews        int            `json:"totalViews"`
	TotalApplications int            `json:"totalApplications"`
}

func ToJobResponse(j *Job) JobResponse {
	return JobResponse{
		ID:               j.ID,
		RecruiterID:      j.RecruiterID,
		Title:            j.Title,
		Description:      j.Description,
		Company:          j.Company,
		Location:         j.Location,
		EmploymentType:   j.EmploymentType,
		ExperienceLevel:  j.ExperienceLevel,
		IsRemote:         j.IsRemote,
		IsUrgent:         j.IsUrgent,
		SalaryMin:        j.SalaryMin,
		SalaryMax:        j.SalaryMax,
		SalaryCurrency:   j.SalaryCurrency,
		RequiredSkills:   nonNil(j.RequiredSkills),
		Benefits:         nonNil(j.Benefits),
		Status:           j.Status,
		ViewCount:        j.ViewCount,
		ApplicationCount: j.ApplicationCount,
		PublishedAt:      j.PublishedAt,
		ClosedAt:         j.ClosedAt,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

func ToJobResponseList(jobs []Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, ToJobResponse(&jobs[i]))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
