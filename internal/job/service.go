// AngelaMos | 2026
// service.go

package job

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/jobboard/internal/core"
)

const defaultCurrency = "USD"

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Create stores a new posting. Postings always start as drafts.
func (s *Service) Create(
	ctx context.Context,
	recruiterID string,
	req CreateJobRequest,
) (*Job, error) {
	currency := strings.ToUpper(req.SalaryCurrency)
	if currency == "" {
		currency = defaultCurrency
	}

	job := &Job{
		ID:              uuid.New().String(),
		RecruiterID:     recruiterID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Company:         strings.TrimSpace(req.Company),
		Location:        strings.TrimSpace(req.Location),
		EmploymentType:  req.EmploymentType,
		ExperienceLevel: req.ExperienceLevel,
		IsRemote:        req.IsRemote,
		IsUrgent:        req.IsUrgent,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		SalaryCurrency:  currency,
		RequiredSkills:  cleanList(req.RequiredSkills),
		Benefits:        cleanList(req.Benefits),
		Status:          StatusDraft,
	}

	if len(job.RequiredSkills) == 0 {
		return nil, core.BadRequestError("requiredSkills must not be empty")
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "job created",
		"job_id", job.ID,
		"recruiter_id", recruiterID,
	)

	return job, nil
}

// owned loads a job and checks that recruiterID owns it.
func (s *Service) owned(
	ctx context.Context,
	id, recruiterID string,
) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !job.IsOwnedBy(recruiterID) {
		return nil, fmt.Errorf("job %s: %w", id, core.ErrForbidden)
	}

	return job, nil
}

func (s *Service) Update(
	ctx context.Context,
	id, recruiterID string,
	req UpdateJobRequest,
) (*Job, error) {
	job, err := s.owned(ctx, id, recruiterID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Company != nil {
		job.Company = strings.TrimSpace(*req.Company)
	}
	if req.Location != nil {
		job.Location = strings.TrimSpace(*req.Location)
	}
	if req.EmploymentType != nil {
		job.EmploymentType = *req.EmploymentType
	}
	if req.ExperienceLevel != nil {
		job.ExperienceLevel = *req.ExperienceLevel
	}
	if req.IsRemote != nil {
		job.IsRemote = *req.IsRemote
	}
	if req.IsUrgent != nil {
		job.IsUrgent = *req.IsUrgent
	}
	if req.SalaryMin != nil {
		job.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = req.SalaryMax
	}
	if req.SalaryCurrency != nil {
		job.SalaryCurrency = strings.ToUpper(*req.SalaryCurrency)
	}
	if req.RequiredSkills != nil {
		skills := cleanList(*req.RequiredSkills)
		if len(skills) == 0 {
			return nil, core.BadRequestError("requiredSkills must not be empty")
		}
		job.RequiredSkills = skills
	}
	if req.Benefits != nil {
		job.Benefits = cleanList(*req.Benefits)
	}
	if req.Status != nil {
		if err := job.setStatus(*req.Status, s.now().UTC()); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// Publish makes a draft or closed job visible. Publishing an already
// published job changes nothing and keeps the original publishedAt.
func (s *Service) Publish(
	ctx context.Context,
	id, recruiterID string,
) (*Job, error) {
	job, err := s.owned(ctx, id, recruiterID)
	if err != nil {
		return nil, err
	}

	if job.Status == StatusPublished {
		return job, nil
	}

	if err := job.setStatus(StatusPublished, s.now().UTC()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	core.AddSpanEvent(ctx, "job.published", core.AttrJobID.String(job.ID))
	s.logger.InfoContext(ctx, "job published", "job_id", job.ID)
	return job, nil
}

// Close stops a published job from taking applications. Closing a closed
// job is a no-op; closing a draft is refused.
func (s *Service) Close(
	ctx context.Context,
	id, recruiterID string,
) (*Job, error) {
	job, err := s.owned(ctx, id, recruiterID)
	if err != nil {
		return nil, err
	}

	if job.Status == StatusClosed {
		return job, nil
	}

	if err := job.setStatus(StatusClosed, s.now().UTC()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "job closed", "job_id", job.ID)
	return job, nil
}

// Remove hard-deletes the job. Its applications are left in place.
func (s *Service) Remove(ctx context.Context, id, recruiterID string) error {
	if _, err := s.owned(ctx, id, recruiterID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) FindAll(
	ctx context.Context,
	params ListJobsParams,
) ([]Job, int, error) {
	ctx, span := core.StartSpan(ctx, "job.FindAll",
		attribute.Int("page", params.Page),
		attribute.Int("skills", len(params.Skills)),
	)
	defer span.End()

	jobs, total, err := s.repo.List(ctx, params)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, 0, err
	}

	return jobs, total, nil
}

// FindOne returns a job and counts the view. Drafts are only visible to
// their owner. A failed view count is logged and otherwise ignored.
func (s *Service) FindOne(
	ctx context.Context,
	id, viewerID string,
) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if job.Status == StatusDraft && !job.IsOwnedBy(viewerID) {
		return nil, fmt.Errorf("job %s: %w", id, core.ErrNotFound)
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "increment job views failed",
			"job_id", id,
			"error", err,
		)
		return job, nil
	}

	job.ViewCount++
	return job, nil
}

func (s *Service) FindByRecruiter(
	ctx context.Context,
	recruiterID string,
	page, pageSize int,
) ([]Job, int, error) {
	params := ListJobsParams{Page: page, PageSize: pageSize}
	params.Normalize()

	jobs, total, err := s.repo.ListByRecruiter(
		ctx,
		recruiterID,
		params.Page,
		params.PageSize,
	)
	if err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (s *Service) Stats(
	ctx context.Context,
	recruiterID string,
) (*StatsResponse, error) {
	byStatus, err := s.repo.CountByStatus(ctx, recruiterID)
	if err != nil {
		return nil, err
	}

	views, applications, err := s.repo.Totals(ctx, recruiterID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}

	return &StatsResponse{
		ByStatus:          byStatus,
		Total:             total,
		TotalViews:        views,
		TotalApplications: applications,
	}, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
