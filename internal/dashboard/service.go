// AngelaMos | 2026
// service.go

package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/jobboard/internal/application"
	"github.com/carterperez-dev/jobboard/internal/config"
	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/job"
	"github.com/carterperez-dev/jobboard/internal/user"
)

type UserReader interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
	CountByRole(ctx context.Context) (map[string]int, error)
}

type JobReader interface {
	CountByStatus(ctx context.Context, recruiterID string) (map[string]int, error)
	Totals(ctx context.Context, recruiterID string) (views, applications int, err error)
	Recent(ctx context.Context, recruiterID string, limit int) ([]job.Job, error)
	Recommend(
		ctx context.Context,
		skills []string,
		excludeIDs []string,
		limit int,
	) ([]job.Job, error)
}

type ApplicationReader interface {
	CountByStatus(ctx context.Context, scope application.Scope) (map[string]int, error)
	MonthlyCounts(
		ctx context.Context,
		scope application.Scope,
		since time.Time,
	) (map[string]int, error)
	Recent(ctx context.Context, recruiterID string, limit int) ([]application.Application, error)
	AppliedJobIDs(ctx context.Context, applicantID string) ([]string, error)
}

type builder func(ctx context.Context, userID string) (any, error)

type Service struct {
	users    UserReader
	jobs     JobReader
	apps     ApplicationReader
	cfg      config.DashboardConfig
	logger   *slog.Logger
	now      func() time.Time
	builders map[string]builder
}

func NewService(
	users UserReader,
	jobs JobReader,
	apps ApplicationReader,
	cfg config.DashboardConfig,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		users:  users,
		jobs:   jobs,
		apps:   apps,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}

	s.builders = map[string]builder{
		user.RoleRecruiter: s.recruiter,
		user.RoleDeveloper: s.developer,
		user.RoleAdmin:     s.admin,
	}

	return s
}

// Summary picks the dashboard for role.
func (s *Service) Summary(ctx context.Context, userID, role string) (any, error) {
	build, ok := s.builders[role]
	if !ok {
		return nil, fmt.Errorf("dashboard for role %q: %w", role, core.ErrForbidden)
	}

	ctx, span := core.StartSpan(ctx, "dashboard.Summary",
		core.AttrUserRole.String(role),
	)
	defer span.End()

	out, err := build(ctx, userID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	return out, nil
}

func (s *Service) recruiter(ctx context.Context, userID string) (any, error) {
	var (
		jobsByStatus map[string]int
		appsByStatus map[string]int
		views        int
		recentJobs   []job.Job
		recentApps   []application.Application
		monthly      map[string]int
	)

	scope := application.Scope{RecruiterID: userID}
	months, since := s.window()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		jobsByStatus, err = s.jobs.CountByStatus(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		appsByStatus, err = s.apps.CountByStatus(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		views, _, err = s.jobs.Totals(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		recentJobs, err = s.jobs.Recent(gctx, userID, s.cfg.RecentJobs)
		return err
	})
	g.Go(func() (err error) {
		recentApps, err = s.apps.Recent(gctx, userID, s.cfg.RecentApplications)
		return err
	})
	g.Go(func() (err error) {
		monthly, err = s.apps.MonthlyCounts(gctx, scope, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalJobs := sum(jobsByStatus)
	totalApps := sum(appsByStatus)

	return &RecruiterDashboard{
		Role:                        user.RoleRecruiter,
		JobsByStatus:                jobsByStatus,
		TotalJobs:                   totalJobs,
		ApplicationsByStatus:        appsByStatus,
		TotalApplications:           totalApps,
		TotalViews:                  views,
		AverageApplicationsPerJob:   ratio(totalApps, totalJobs, 1),
		RecentJobs:                  job.ToJobResponseList(recentJobs),
		RecentApplications:          application.ToApplicationResponseList(recentApps, true),
		ApplicationsReceivedByMonth: histogram(monthly, months),
	}, nil
}

func (s *Service) developer(ctx context.Context, userID string) (any, error) {
	profile, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		appsByStatus map[string]int
		applied      []string
		monthly      map[string]int
	)

	scope := application.Scope{ApplicantID: userID}
	months, since := s.window()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		appsByStatus, err = s.apps.CountByStatus(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		applied, err = s.apps.AppliedJobIDs(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		monthly, err = s.apps.MonthlyCounts(gctx, scope, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recommended, err := s.jobs.Recommend(ctx, profile.Skills, applied, s.cfg.Recommendations)
	if err != nil {
		return nil, err
	}

	total := sum(appsByStatus)
	missing := user.MissingProfileFields(profile)
	if missing == nil {
		missing = []string{}
	}

	return &DeveloperDashboard{
		Role:                    user.RoleDeveloper,
		ApplicationsByStatus:    appsByStatus,
		TotalApplications:       total,
		SuccessRate:             ratio(appsByStatus[application.StatusOffered], total, 100),
		IsProfileComplete:       user.ComputeProfileComplete(profile),
		ProfileCompletion:       user.ProfileCompletion(profile),
		MissingFields:           missing,
		RecommendedJobs:         job.ToJobResponseList(recommended),
		ApplicationsSentByMonth: histogram(monthly, months),
	}, nil
}

func (s *Service) admin(ctx context.Context, _ string) (any, error) {
	return s.Platform(ctx)
}

// Platform aggregates totals across every user, job and application.
func (s *Service) Platform(ctx context.Context) (*AdminDashboard, error) {
	var (
		usersByRole  map[string]int
		jobsByStatus map[string]int
		appsByStatus map[string]int
		views        int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		usersByRole, err = s.users.CountByRole(gctx)
		return err
	})
	g.Go(func() (err error) {
		jobsByStatus, err = s.jobs.CountByStatus(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		appsByStatus, err = s.apps.CountByStatus(gctx, application.Scope{})
		return err
	})
	g.Go(func() (err error) {
		views, _, err = s.jobs.Totals(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &AdminDashboard{
		Role:                 user.RoleAdmin,
		UsersByRole:          usersByRole,
		TotalUsers:           sum(usersByRole),
		JobsByStatus:         jobsByStatus,
		TotalJobs:            sum(jobsByStatus),
		ApplicationsByStatus: appsByStatus,
		TotalApplications:    sum(appsByStatus),
		TotalViews:           views,
	}, nil
}

// window returns the month keys of the trailing histogram, oldest first,
// and the instant the oldest month starts.
func (s *Service) window() ([]string, time.Time) {
	n := max(s.cfg.HistogramMonths, 1)
	now := s.now().UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := current.AddDate(0, -(n - 1), 0)

	keys := make([]string, 0, n)
	for i := range n {
		keys = append(keys, start.AddDate(0, i, 0).Format(application.MonthKey))
	}

	return keys, start
}

func histogram(counts map[string]int, months []string) []MonthCount {
	out := make([]MonthCount, 0, len(months))
	for _, m := range months {
		out = append(out, MonthCount{Month: m, Count: counts[m]})
	}
	return out
}

// ratio returns part/whole*scale rounded to two decimals, or 0 when whole
// is 0.
func ratio(part, whole int, scale float64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*scale*100) / 100
}

func sum(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
