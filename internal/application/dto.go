// AngelaMos | 2026
// dto.go

package application

import (
	"time"
)

type CreateApplicationRequest struct {
	JobID       string  `json:"jobId"       validate:"required,uuid"`
	CoverLetter string  `json:"coverLetter" validate:"omitempty,max=10000"`
	ResumeID    *string `json:"resumeId"    validate:"omitempty,uuid"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=applied reviewing interviewing offered rejected"`
	Notes  *string `json:"notes"  validate:"omitempty,max=5000"`
}

// Scope narrows aggregate queries. Both fields empty means the whole
// platform.
type Scope struct {
	RecruiterID string
	ApplicantID string
}

type ApplicationResponse struct {
	ID            string     `json:"id"`
	JobID         string     `json:"jobId"`
	ApplicantID   string     `json:"applicantId"`
	RecruiterID   string     `json:"recruiterId"`
	CoverLetter   string     `json:"coverLetter"`
	ResumeID      *string    `json:"resumeId"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	AppliedAt     time.Time  `json:"appliedAt"`
	ReviewedAt    *time.Time `json:"reviewedAt"`
	InterviewedAt *time.Time `json:"interviewedAt"`
	OfferedAt     *time.Time `json:"offeredAt"`
	RejectedAt    *time.Time `json:"rejectedAt"`
	WithdrawnAt   *time.Time `json:"withdrawnAt"`
	IsViewed      bool       `json:"isViewed"`
	ViewedAt      *time.Time `json:"viewedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ToApplicationResponse hides recruiter notes unless showNotes is set.
func ToApplicationResponse(a *Application, showNotes bool) ApplicationResponse {
	resp := ApplicationResponse{
		ID:            a.ID,
		JobID:         a.JobID,
		ApplicantID:   a.ApplicantID,
		RecruiterID:   a.RecruiterID,
		CoverLetter:   a.CoverLetter,
		ResumeID:      a.ResumeID,
		Status:        a.Status,
		AppliedAt:     a.AppliedAt,
		ReviewedAt:    a.ReviewedAt,
		InterviewedAt: a.InterviewedAt,
		OfferedAt:     a.OfferedAt,
		RejectedAt:    a.RejectedAt,
		WithdrawnAt:   a.WithdrawnAt,
		IsViewed:      a.IsViewed,
		ViewedAt:      a.ViewedAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if showNotes {
		resp.Notes = a.Notes
	}
	return resp
}

func ToApplicationResponseList(apps []Application, showNotes bool) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, ToApplicationResponse(&apps[i], showNotes))
	}
	return out
}
