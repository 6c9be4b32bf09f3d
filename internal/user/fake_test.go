// AngelaMos | 2026
// fake_test.go

package user

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type memRepo struct {
	mu      sync.Mutex
	users   map[string]*User
	resumes map[string]*Resume

	allCustomURLsTaken bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:   map[string]*User{},
		resumes: map[string]*Resume{},
	}
}

func (m *memRepo) put(u *User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", errEmailTaken)
		}
		if existing.CustomURL == u.CustomURL {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) find(pred func(u *User) bool) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.DeletedAt == nil && pred(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (m *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	return m.find(func(u *User) bool { return u.ID == id })
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	return m.find(func(u *User) bool { return u.Email == email })
}

func (m *memRepo) GetByCustomURL(_ context.Context, customURL string) (*User, error) {
	return m.find(func(u *User) bool { return u.CustomURL == customURL })
}

func (m *memRepo) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	for id, other := range m.users {
		if id != u.ID && (other.Email == u.Email || other.CustomURL == u.CustomURL) {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) mutate(id string, fn func(u *User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.DeletedAt != nil {
		return fmt.Errorf("mutate user: %w", core.ErrNotFound)
	}
	fn(u)
	return nil
}

func (m *memRepo) UpdatePassword(_ context.Context, id, hash string) error {
	return m.mutate(id, func(u *User) { u.PasswordHash = hash })
}

func (m *memRepo) UpdateLastLogin(_ context.Context, id string) error {
	return m.mutate(id, func(*User) {})
}

func (m *memRepo) SetRefreshTokenHash(_ context.Context, id string, hash *string) error {
	return m.mutate(id, func(u *User) { u.RefreshTokenHash = hash })
}

func (m *memRepo) IncrementProfileViews(_ context.Context, id string) error {
	return m.mutate(id, func(u *User) { u.ProfileViews++ })
}

func (m *memRepo) SoftDelete(_ context.Context, id string) error {
	return m.mutate(id, func(u *User) {
		now := u.UpdatedAt
		u.DeletedAt = &now
	})
}

func (m *memRepo) List(_ context.Context, p ListUsersParams) ([]User, int, error) {
	p.Normalize()
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []User
	for _, u := range m.users {
		if u.DeletedAt != nil {
			continue
		}
		if p.Role != "" && u.Role != p.Role {
			continue
		}
		if p.Search != "" && !strings.Contains(u.Email, p.Search) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	total := len(out)
	start := min(p.Offset(), total)
	end := min(start+p.PageSize, total)
	return out[start:end], total, nil
}

func (m *memRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := m.find(func(u *User) bool { return u.Email == email })
	return err == nil, nil
}

func (m *memRepo) ExistsByCustomURL(_ context.Context, customURL string) (bool, error) {
	if m.allCustomURLsTaken {
		return true, nil
	}
	_, err := m.find(func(u *User) bool { return u.CustomURL == customURL })
	return err == nil, nil
}

func (m *memRepo) CountByRole(_ context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{RoleDeveloper: 0, RoleRecruiter: 0, RoleAdmin: 0}
	for _, u := range m.users {
		if u.DeletedAt == nil {
			counts[u.Role]++
		}
	}
	return counts, nil
}

func (m *memRepo) AddResume(_ context.Context, r *Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[r.UserID]
	if !ok {
		return fmt.Errorf("link resume: %w", core.ErrNotFound)
	}
	r.IsActive = true
	cp := *r
	m.resumes[r.ID] = &cp
	u.ResumeIDs = append(u.ResumeIDs, r.ID)
	return nil
}

func (m *memRepo) ListResumes(_ context.Context, userID string) ([]Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Resume
	for _, r := range m.resumes {
		if r.UserID == userID && r.IsActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRepo) CountResumes(ctx context.Context, userID string) (int, error) {
	rs, err := m.ListResumes(ctx, userID)
	return len(rs), err
}

func (m *memRepo) DeleteResume(_ context.Context, userID, resumeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[resumeID]
	if !ok || r.UserID != userID || !r.IsActive {
		return fmt.Errorf("delete resume: %w", core.ErrNotFound)
	}
	r.IsActive = false
	u := m.users[userID]
	u.ResumeIDs = slices.DeleteFunc(u.ResumeIDs, func(id string) bool {
		return id == resumeID
	})
	return nil
}

var _ Repository = (*memRepo)(nil)
