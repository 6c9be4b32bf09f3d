// AngelaMos | 2026
// entity.go

package job

import (
	"time"

	"github.com/lib/pq"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type Job struct {
	ID               string         `db:"id"`
	RecruiterID      string         `db:"recruiter_id"`
	Title            string         `db:"title"`
	Description      string         `db:"description"`
	Company          string         `db:"company"`
	Location         string         `db:"location"`
	EmploymentType   string         `db:"employment_type"`
	ExperienceLevel  string         `db:"experience_level"`
	IsRemote         bool           `db:"is_remote"`
	IsUrgent         bool           `db:"is_urgent"`
	SalaryMin        *int           `db:"salary_min"`
	SalaryMax        *int           `db:"salary_max"`
	SalaryCurrency   string         `db:"salary_currency"`
	RequiredSkills   pq.StringArray `db:"required_skills"`
	Benefits         pq.StringArray `db:"benefits"`
	Status           string         `db:"status"`
	ViewCount        int            `db:"view_count"`
	ApplicationCount int            `db:"application_count"`
	ApplicantIDs     pq.StringArray `db:"applicant_ids"`
	PublishedAt      *time.Time     `db:"published_at"`
	ClosedAt         *time.Time     `db:"closed_at"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (j *Job) IsOwnedBy(recruiterID string) bool {
	return recruiterID != "" && j.RecruiterID == recruiterID
}

func (j *Job) IsPublished() bool {
	return j.Status == StatusPublished
}

// setStatus moves the job to status and stamps the matching timestamp on the
// way in. Reopening a closed job clears closedAt. Moving to the current
// status is a no-op. A draft cannot be closed and nothing returns to draft.
func (j *Job) setStatus(status string, now time.Time) error {
	if status == j.Status {
		return nil
	}

	switch status {
	case StatusPublished:
		j.PublishedAt = &now
		j.ClosedAt = nil
	case StatusClosed:
		if j.Status == StatusDraft {
			return core.InvalidStateError("a draft job cannot be closed")
		}
		j.ClosedAt = &now
	case StatusDraft:
		return core.InvalidStateError("a " + j.Status + " job cannot return to draft")
	default:
		return core.BadRequestError("unknown job status " + status)
	}

	j.Status = status
	return nil
}

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusClosed    = "closed"
)

const (
	EmploymentFullTime   = "full-time"
	EmploymentPartTime   = "part-time"
	EmploymentContract   = "contract"
	EmploymentInternship = "internship"
	EmploymentFreelance  = "freelance"
)

const (
	LevelEntry  = "entry"
	LevelMid    = "mid"
	LevelSenior = "senior"
	LevelLead   = "lead"
)

var Statuses = []string{StatusDraft, StatusPublished, StatusClosed}
