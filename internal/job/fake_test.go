// AngelaMos | 2026
// fake_test.go

package job

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type memRepo struct {
	mu   sync.Mutex
	jobs map[string]*Job
	seq  int
}

func newMemRepo() *memRepo {
	return &memRepo{jobs: map[string]*Job{}}
}

func (m *memRepo) Create(_ context.Context, j *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	j.CreatedAt = fixedNow.Add(time.Duration(m.seq) * time.Minute)
	j.UpdatedAt = j.CreatedAt
	cp := *j
	m.jobs[j.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Job, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("get job: %w", &pgconn.PgError{Code: "22P02"})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, fmt.Errorf("get job: %w", core.ErrNotFound)
	}
	cp := *j
	return &cp, nil
}

func (m *memRepo) Update(_ context.Context, j *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.jobs[j.ID]
	if !ok {
		return fmt.Errorf("update job: %w", core.ErrNotFound)
	}
	cp := *j
	cp.ViewCount = existing.ViewCount
	cp.ApplicationCount = existing.ApplicationCount
	cp.RecruiterID = existing.RecruiterID
	m.jobs[j.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return fmt.Errorf("delete job: %w", core.ErrNotFound)
	}
	delete(m.jobs, id)
	return nil
}

func (m *memRepo) sorted(pred func(j *Job) bool) []Job {
	var out []Job
	for _, j := range m.jobs {
		if pred(j) {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out
}

func (m *memRepo) List(_ context.Context, p ListJobsParams) ([]Job, int, error) {
	p.Normalize()
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.sorted(func(j *Job) bool {
		if j.Status == StatusDraft {
			return false
		}
		if p.Status != "" && j.Status != p.Status {
			return false
		}
		if p.EmploymentType != "" && j.EmploymentType != p.EmploymentType {
			return false
		}
		if p.ExperienceLevel != "" && j.ExperienceLevel != p.ExperienceLevel {
			return false
		}
		if p.IsRemote != nil && j.IsRemote != *p.IsRemote {
			return false
		}
		if p.Location != "" &&
			!strings.Contains(strings.ToLower(j.Location), strings.ToLower(p.Location)) {
			return false
		}
		if len(p.Skills) > 0 && !slices.ContainsFunc(j.RequiredSkills, func(s string) bool {
			return slices.Contains(p.Skills, strings.ToLower(s))
		}) {
			return false
		}
		if p.Search != "" {
			needle := strings.ToLower(p.Search)
			hay := strings.ToLower(j.Title + " " + j.Description + " " + j.Company)
			if !strings.Contains(hay, needle) {
				return false
			}
		}
		return true
	})

	total := len(out)
	start := min(p.Offset(), total)
	end := min(start+p.PageSize, total)
	return out[start:end], total, nil
}

func (m *memRepo) ListByRecruiter(
	_ context.Context,
	recruiterID string,
	page, pageSize int,
) ([]Job, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted(func(j *Job) bool { return j.RecruiterID == recruiterID })
	total := len(out)
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	return out[start:end], total, nil
}

func (m *memRepo) IncrementViews(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return fmt.Errorf("increment job views: %w", core.ErrNotFound)
	}
	j.ViewCount++
	return nil
}

func (m *memRepo) CountByStatus(_ context.Context, recruiterID string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{StatusDraft: 0, StatusPublished: 0, StatusClosed: 0}
	for _, j := range m.jobs {
		if recruiterID == "" || j.RecruiterID == recruiterID {
			counts[j.Status]++
		}
	}
	return counts, nil
}

func (m *memRepo) Totals(_ context.Context, recruiterID string) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var views, apps int
	for _, j := range m.jobs {
		if recruiterID == "" || j.RecruiterID == recruiterID {
			views += j.ViewCount
			apps += j.ApplicationCount
		}
	}
	return views, apps, nil
}

func (m *memRepo) Recent(_ context.Context, recruiterID string, limit int) ([]Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted(func(j *Job) bool { return j.RecruiterID == recruiterID })
	return out[:min(limit, len(out))], nil
}

func (m *memRepo) Recommend(
	_ context.Context,
	skills []string,
	excludeIDs []string,
	limit int,
) ([]Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted(func(j *Job) bool {
		if j.Status != StatusPublished || slices.Contains(excludeIDs, j.ID) {
			return false
		}
		if len(skills) == 0 {
			return true
		}
		return slices.ContainsFunc(j.RequiredSkills, func(s string) bool {
			for _, want := range skills {
				if strings.Contains(strings.ToLower(s), strings.ToLower(want)) {
					return true
				}
			}
			return false
		})
	})
	return out[:min(limit, len(out))], nil
}

var _ Repository = (*memRepo)(nil)
