// AngelaMos | 2026
// fake_test.go

package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/job"
	"github.com/carterperez-dev/jobboard/internal/user"
)

// memResumes holds active resumes keyed by owner.
type memResumes struct {
	mu      sync.Mutex
	byOwner map[string][]user.Resume
}

func newMemResumes() *memResumes {
	return &memResumes{byOwner: map[string][]user.Resume{}}
}

func (m *memResumes) put(r user.Resume) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byOwner[r.UserID] = append(m.byOwner[r.UserID], r)
}

func (m *memResumes) ListResumes(_ context.Context, userID string) ([]user.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]user.Resume(nil), m.byOwner[userID]...), nil
}

type memJobs struct {
	mu   sync.Mutex
	jobs map[string]*job.Job
}

func newMemJobs() *memJobs {
	return &memJobs{jobs: map[string]*job.Job{}}
}

func (m *memJobs) put(j job.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.ID] = &j
}

func (m *memJobs) GetByID(_ context.Context, id string) (*job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, fmt.Errorf("get job: %w", core.ErrNotFound)
	}
	cp := *j
	return &cp, nil
}

// memRepo mirrors the transactional create: the job counters move together
// with the inserted row.
type memRepo struct {
	mu   sync.Mutex
	apps map[string]*Application
	jobs *memJobs
}

func newMemRepo(jobs *memJobs) *memRepo {
	return &memRepo{apps: map[string]*Application{}, jobs: jobs}
}

func (m *memRepo) Create(_ context.Context, app *Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.JobID == app.JobID && a.ApplicantID == app.ApplicantID {
			return fmt.Errorf("create application: %w", core.ErrDuplicateKey)
		}
	}

	m.jobs.mu.Lock()
	defer m.jobs.mu.Unlock()
	j, ok := m.jobs.jobs[app.JobID]
	if !ok {
		return fmt.Errorf("bump job counters: %w", core.ErrNotFound)
	}
	j.ApplicationCount++
	j.ApplicantIDs = append(j.ApplicantIDs, app.ApplicantID)

	app.CreatedAt = app.AppliedAt
	app.UpdatedAt = app.AppliedAt
	cp := *app
	m.apps[app.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, fmt.Errorf("get application: %w", core.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (m *memRepo) Exists(_ context.Context, jobID, applicantID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.JobID == jobID && a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Update(_ context.Context, app *Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[app.ID]; !ok {
		return fmt.Errorf("update application: %w", core.ErrNotFound)
	}
	cp := *app
	m.apps[app.ID] = &cp
	return nil
}

func (m *memRepo) filter(pred func(a *Application) bool) []Application {
	var out []Application
	for _, a := range m.apps {
		if pred(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out
}

func page(in []Application, page, pageSize int) []Application {
	start := min((page-1)*pageSize, len(in))
	end := min(start+pageSize, len(in))
	return in[start:end]
}

func (m *memRepo) ListByJob(
	_ context.Context,
	jobID string,
	p, size int,
) ([]Application, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.filter(func(a *Application) bool { return a.JobID == jobID })
	return page(out, p, size), len(out), nil
}

func (m *memRepo) ListByApplicant(
	_ context.Context,
	applicantID string,
	p, size int,
) ([]Application, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.filter(func(a *Application) bool { return a.ApplicantID == applicantID })
	return page(out, p, size), len(out), nil
}

func (m *memRepo) inScope(a *Application, scope Scope) bool {
	return (scope.RecruiterID == "" || a.RecruiterID == scope.RecruiterID) &&
		(scope.ApplicantID == "" || a.ApplicantID == scope.ApplicantID)
}

func (m *memRepo) CountByStatus(_ context.Context, scope Scope) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, a := range m.apps {
		if m.inScope(a, scope) {
			counts[a.Status]++
		}
	}
	return counts, nil
}

func (m *memRepo) MonthlyCounts(
	_ context.Context,
	scope Scope,
	since time.Time,
) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, a := range m.apps {
		if m.inScope(a, scope) && !a.AppliedAt.Before(since) {
			counts[a.AppliedAt.UTC().Format(MonthKey)]++
		}
	}
	return counts, nil
}

func (m *memRepo) Recent(_ context.Context, recruiterID string, limit int) ([]Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.filter(func(a *Application) bool { return a.RecruiterID == recruiterID })
	return out[:min(limit, len(out))], nil
}

func (m *memRepo) AppliedJobIDs(_ context.Context, applicantID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, a := range m.apps {
		if a.ApplicantID == applicantID {
			ids = append(ids, a.JobID)
		}
	}
	return ids, nil
}

var _ Repository = (*memRepo)(nil)
