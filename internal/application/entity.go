// AngelaMos | 2026
// entity.go

package application

import (
	"time"
)

const (
	StatusApplied      = "applied"
	StatusReviewing    = "reviewing"
	StatusInterviewing = "interviewing"
	StatusOffered      = "offered"
	StatusRejected     = "rejected"
	StatusWithdrawn    = "withdrawn"
)

var Statuses = []string{
	StatusApplied,
	StatusReviewing,
	StatusInterviewing,
	StatusOffered,
	StatusRejected,
	StatusWithdrawn,
}

type Application struct {
	ID            string     `db:"id"`
	JobID         string     `db:"job_id"`
	ApplicantID   string     `db:"applicant_id"`
	RecruiterID   string     `db:"recruiter_id"`
	CoverLetter   string     `db:"cover_letter"`
	ResumeID      *string    `db:"resume_id"`
	Status        string     `db:"status"`
	Notes         string     `db:"notes"`
	AppliedAt     time.Time  `db:"applied_at"`
	ReviewedAt    *time.Time `db:"reviewed_at"`
	InterviewedAt *time.Time `db:"interviewed_at"`
	OfferedAt     *time.Time `db:"offered_at"`
	RejectedAt    *time.Time `db:"rejected_at"`
	WithdrawnAt   *time.Time `db:"withdrawn_at"`
	IsViewed      bool       `db:"is_viewed"`
	ViewedAt      *time.Time `db:"viewed_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (a *Application) IsApplicant(userID string) bool {
	return userID != "" && a.ApplicantID == userID
}

func (a *Application) IsRecruiter(userID string) bool {
	return userID != "" && a.RecruiterID == userID
}

// setStatus moves the application and stamps the timestamp that belongs to
// the new status. applied has no timestamp of its own beyond appliedAt.
func (a *Application) setStatus(status string, now time.Time) {
	if status == a.Status {
		return
	}

	switch status {
	case StatusReviewing:
		a.ReviewedAt = &now
	case StatusInterviewing:
		a.InterviewedAt = &now
	case StatusOffered:
		a.OfferedAt = &now
	case StatusRejected:
		a.RejectedAt = &now
	case StatusWithdrawn:
		a.WithdrawnAt = &now
	}

	a.Status = status
}

// markViewed records the first time a recruiter opened the application.
func (a *Application) markViewed(now time.Time) bool {
	if a.IsViewed {
		return false
	}
	a.IsViewed = true
	a.ViewedAt = &now
	return true
}
