// AngelaMos | 2026
// service.go

package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/job"
	"github.com/carterperez-dev/jobboard/internal/middleware"
	"github.com/carterperez-dev/jobboard/internal/user"
)

// JobReader is the slice of the job store applications need.
type JobReader interface {
	GetByID(ctx context.Context, id string) (*job.Job, error)
}

// ResumeLister returns a user's active resumes.
type ResumeLister interface {
	ListResumes(ctx context.Context, userID string) ([]user.Resume, error)
}

type Service struct {
	repo    Repository
	jobs    JobReader
	resumes ResumeLister
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(
	repo Repository,
	jobs JobReader,
	resumes ResumeLister,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		repo:    repo,
		jobs:    jobs,
		resumes: resumes,
		logger:  logger,
		now:     time.Now,
	}
}

// Create submits an application to a published job.
func (s *Service) Create(
	ctx context.Context,
	applicantID string,
	req CreateApplicationRequest,
) (*Application, error) {
	ctx, span := core.StartSpan(ctx, "application.Create",
		core.AttrJobID.String(req.JobID),
	)
	defer span.End()

	target, err := s.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, err
	}

	if !target.IsPublished() {
		return nil, core.BadRequestError("job is not accepting applications")
	}

	exists, err := s.repo.Exists(ctx, req.JobID, applicantID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, core.ConflictError("you have already applied to this job")
	}

	if req.ResumeID != nil {
		if err := s.checkResume(ctx, applicantID, *req.ResumeID); err != nil {
			return nil, err
		}
	}

	app := &Application{
		ID:          uuid.New().String(),
		JobID:       target.ID,
		ApplicantID: applicantID,
		RecruiterID: target.RecruiterID,
		CoverLetter: strings.TrimSpace(req.CoverLetter),
		ResumeID:    req.ResumeID,
		Status:      StatusApplied,
		AppliedAt:   s.now().UTC(),
	}

	if err := s.repo.Create(ctx, app); err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	core.AddSpanEvent(ctx, "application.submitted",
		core.AttrApplicationID.String(app.ID),
	)
	s.logger.InfoContext(ctx, "application submitted",
		"application_id", app.ID,
		"job_id", app.JobID,
	)

	return app, nil
}

// checkResume refuses a resume the applicant does not own or that has been
// deleted or has expired.
func (s *Service) checkResume(ctx context.Context, applicantID, resumeID string) error {
	resumes, err := s.resumes.ListResumes(ctx, applicantID)
	if err != nil {
		return err
	}

	now := s.now()
	for i := range resumes {
		if resumes[i].ID == resumeID && !resumes[i].IsExpired(now) {
			return nil
		}
	}
	return core.BadRequestError("resumeId does not name one of your active resumes")
}

// UpdateStatus is the recruiter side of the state machine. Withdrawal
// belongs to the applicant and is refused here in both directions.
func (s *Service) UpdateStatus(
	ctx context.Context,
	id, recruiterID string,
	req UpdateStatusRequest,
) (*Application, error) {
	if req.Status == StatusWithdrawn {
		return nil, core.InvalidStateError("only the applicant can withdraw an application")
	}
	if !isKnownStatus(req.Status) {
		return nil, core.BadRequestError("unknown status " + req.Status)
	}

	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !app.IsRecruiter(recruiterID) {
		return nil, fmt.Errorf("application %s: %w", id, core.ErrForbidden)
	}

	if app.Status == StatusWithdrawn {
		return nil, core.InvalidStateError("application has been withdrawn")
	}

	from := app.Status
	app.setStatus(req.Status, s.now().UTC())
	if req.Notes != nil {
		app.Notes = strings.TrimSpace(*req.Notes)
	}

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}

	if from != app.Status {
		core.AddSpanEvent(ctx, "application.status_changed",
			core.AttrStatusFrom.String(from),
			core.AttrStatusTo.String(app.Status),
		)
		s.logger.InfoContext(ctx, "application status changed",
			"application_id", app.ID,
			"from", from,
			"to", app.Status,
		)
	}

	return app, nil
}

// Withdraw lets the applicant pull out. Offers and withdrawn applications
// are final from the applicant's side.
func (s *Service) Withdraw(
	ctx context.Context,
	id, applicantID string,
) (*Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !app.IsApplicant(applicantID) {
		return nil, fmt.Errorf("application %s: %w", id, core.ErrForbidden)
	}

	switch app.Status {
	case StatusWithdrawn:
		return nil, core.InvalidStateError("application already withdrawn")
	case StatusOffered:
		return nil, core.InvalidStateError("an offered application cannot be withdrawn")
	}

	app.setStatus(StatusWithdrawn, s.now().UTC())

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "application withdrawn", "application_id", app.ID)
	return app, nil
}

// MarkViewed flags the application as seen by its recruiter. Only the first
// view is recorded.
func (s *Service) MarkViewed(
	ctx context.Context,
	id, recruiterID string,
) (*Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !app.IsRecruiter(recruiterID) {
		return nil, fmt.Errorf("application %s: %w", id, core.ErrForbidden)
	}

	if !app.markViewed(s.now().UTC()) {
		return app, nil
	}

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// ListByJob returns a job's applications to the recruiter who owns it. A job
// owned by someone else looks the same as a missing one.
func (s *Service) ListByJob(
	ctx context.Context,
	jobID, recruiterID string,
	page, pageSize int,
) ([]Application, int, error) {
	target, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, 0, err
	}

	if !target.IsOwnedBy(recruiterID) {
		return nil, 0, fmt.Errorf("job %s: %w", jobID, core.ErrNotFound)
	}

	page, pageSize = normalizePage(page, pageSize)
	return s.repo.ListByJob(ctx, jobID, page, pageSize)
}

func (s *Service) ListMine(
	ctx context.Context,
	applicantID string,
	page, pageSize int,
) ([]Application, int, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.repo.ListByApplicant(ctx, applicantID, page, pageSize)
}

// Get returns the application to its applicant, its recruiter or an admin.
// Anyone else gets NotFound.
func (s *Service) Get(
	ctx context.Context,
	id string,
	caller middleware.Principal,
) (*Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canView(app, caller) {
		return nil, fmt.Errorf("application %s: %w", id, core.ErrNotFound)
	}

	return app, nil
}

func canView(app *Application, caller middleware.Principal) bool {
	return caller.IsAdmin() ||
		app.IsApplicant(caller.UserID) ||
		app.IsRecruiter(caller.UserID)
}

// canSeeNotes reports whether the caller may read recruiter notes.
func canSeeNotes(app *Application, caller middleware.Principal) bool {
	return caller.IsAdmin() || app.IsRecruiter(caller.UserID)
}

func isKnownStatus(status string) bool {
	return slices.Contains(Statuses, status)
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
