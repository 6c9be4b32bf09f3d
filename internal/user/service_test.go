// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/jobboard/internal/auth"
	"github.com/carterperez-dev/jobboard/internal/config"
	"github.com/carterperez-dev/jobboard/internal/core"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	svc := NewService(repo, config.ResumeConfig{ExpiryMonths: 3, MaxPerUser: 2}, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func createUser(t *testing.T, svc *Service, email, role string) *auth.UserInfo {
	t.Helper()
	info, err := svc.Create(context.Background(), auth.NewUser{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         role,
	})
	require.NoError(t, err)
	return info
}

func TestCreate_NormalizesEmailAndGeneratesSlug(t *testing.T) {
	svc, _ := newTestService(t)

	info := createUser(t, svc, "  Ada@Example.COM ", RoleDeveloper)

	assert.Equal(t, "ada@example.com", info.Email)
	assert.Equal(t, "ada-lovelace-1773576000", info.CustomURL)
	assert.False(t, info.IsProfileComplete)
}

func TestCreate_DuplicateEmailIsConflict(t *testing.T) {
	svc, _ := newTestService(t)
	createUser(t, svc, "ada@example.com", RoleDeveloper)

	_, err := svc.Create(context.Background(), auth.NewUser{
		Email:     "ADA@example.com",
		FirstName: "Other",
		LastName:  "Person",
		Role:      RoleRecruiter,
	})

	assert.ErrorIs(t, err, core.ErrDuplicateKey)
	assert.ErrorIs(t, err, auth.ErrEmailExists)
}

func TestCreate_CustomURLExhaustionIsNotEmailConflict(t *testing.T) {
	svc, repo := newTestService(t)
	repo.allCustomURLsTaken = true

	_, err := svc.Create(context.Background(), auth.NewUser{
		Email:     "fresh@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      RoleDeveloper,
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrEmailExists)

	var appErr *core.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 409, appErr.StatusCode)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestCreate_CustomURLCollisionGetsSuffix(t *testing.T) {
	svc, _ := newTestService(t)

	first := createUser(t, svc, "a@example.com", RoleDeveloper)
	second := createUser(t, svc, "b@example.com", RoleDeveloper)

	assert.NotEqual(t, first.CustomURL, second.CustomURL)
	assert.Contains(t, second.CustomURL, first.CustomURL+"-")
}

func TestCreate_RejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), auth.NewUser{
		Email: "x@example.com",
		Role:  "superuser",
	})

	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestUpdateProfile_DeveloperBecomesComplete(t *testing.T) {
	svc, _ := newTestService(t)
	info := createUser(t, svc, "dev@example.com", RoleDeveloper)
	ctx := context.Background()

	years := 4
	req := UpdateProfileRequest{
		Bio:               ptr("Backend engineer"),
		Location:          ptr("Berlin"),
		Skills:            &[]string{"Go", "Postgres"},
		ExperienceLevel:   ptr("mid"),
		YearsOfExperience: &years,
		CurrentCompany:    ptr("Acme"),
		CurrentPosition:   ptr("Engineer"),
		Education:         &[]string{"BSc CS"},
	}

	u, err := svc.UpdateProfile(ctx, info.ID, req)
	require.NoError(t, err)
	assert.False(t, u.IsProfileComplete)
	assert.Equal(t, []string{"certifications"}, MissingProfileFields(u))

	u, err = svc.UpdateProfile(ctx, info.ID, UpdateProfileRequest{
		Certifications: &[]string{"CKA"},
	})
	require.NoError(t, err)
	assert.True(t, u.IsProfileComplete)

	u, err = svc.UpdateProfile(ctx, info.ID, UpdateProfileRequest{
		Bio: ptr("   "),
	})
	require.NoError(t, err)
	assert.False(t, u.IsProfileComplete)
}

func TestUpdateProfile_EmailOwnedByAnotherUser(t *testing.T) {
	svc, _ := newTestService(t)
	createUser(t, svc, "taken@example.com", RoleDeveloper)
	info := createUser(t, svc, "me@example.com", RoleDeveloper)

	_, err := svc.UpdateProfile(context.Background(), info.ID, UpdateProfileRequest{
		Email: ptr("Taken@example.com"),
	})

	var appErr *core.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 409, appErr.StatusCode)
}

func TestUpdateProfile_CustomURLOwnedByAnotherUser(t *testing.T) {
	svc, _ := newTestService(t)
	other := createUser(t, svc, "other@example.com", RoleDeveloper)
	info := createUser(t, svc, "me@example.com", RoleDeveloper)

	_, err := svc.UpdateProfile(context.Background(), info.ID, UpdateProfileRequest{
		CustomURL: ptr(other.CustomURL),
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	u, err := svc.UpdateProfile(context.Background(), info.ID, UpdateProfileRequest{
		CustomURL: ptr(info.CustomURL),
	})
	require.NoError(t, err)
	assert.Equal(t, info.CustomURL, u.CustomURL)
}

func TestGetPublicProfile_CountsViews(t *testing.T) {
	svc, repo := newTestService(t)
	info := createUser(t, svc, "dev@example.com", RoleDeveloper)
	ctx := context.Background()

	_, err := svc.GetPublicProfile(ctx, info.CustomURL)
	require.NoError(t, err)
	u, err := svc.GetPublicProfile(ctx, info.CustomURL)
	require.NoError(t, err)

	assert.Equal(t, 2, u.ProfileViews)
	stored, err := repo.GetByID(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ProfileViews)

	_, err = svc.GetPublicProfile(ctx, "nobody")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestResumes_AddListDelete(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	owner := createUser(t, svc, "dev@example.com", RoleDeveloper)
	other := createUser(t, svc, "other@example.com", RoleDeveloper)

	r, err := svc.AddResume(ctx, owner.ID, AddResumeRequest{
		FileName: "cv.pdf",
		FileURL:  "https://files.example.com/cv.pdf",
		FileSize: 1024,
		MimeType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, fixedNow.AddDate(0, 3, 0), r.ExpiresAt)

	stored, err := repo.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{r.ID}, []string(stored.ResumeIDs))

	err = svc.DeleteResume(ctx, other.ID, r.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, svc.DeleteResume(ctx, owner.ID, r.ID))

	list, err := svc.ListResumes(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	stored, err = repo.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ResumeIDs)
}

func TestResumes_LimitPerUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := createUser(t, svc, "dev@example.com", RoleDeveloper)

	req := AddResumeRequest{FileName: "cv.pdf", FileURL: "https://x.example/cv.pdf"}
	for range 2 {
		_, err := svc.AddResume(ctx, owner.ID, req)
		require.NoError(t, err)
	}

	_, err := svc.AddResume(ctx, owner.ID, req)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCanDeleteUser(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	admin := &User{ID: "admin-1", Email: "root@example.com", Role: RoleAdmin, CustomURL: "root"}
	otherAdmin := &User{ID: "admin-2", Email: "root2@example.com", Role: RoleAdmin, CustomURL: "root2"}
	repo.put(admin)
	repo.put(otherAdmin)
	dev := createUser(t, svc, "dev@example.com", RoleDeveloper)

	assert.NoError(t, svc.CanDeleteUser(ctx, admin.ID, dev.ID))
	assert.ErrorIs(t, svc.CanDeleteUser(ctx, admin.ID, otherAdmin.ID), core.ErrForbidden)
	assert.ErrorIs(t, svc.CanDeleteUser(ctx, dev.ID, admin.ID), core.ErrForbidden)
}

func TestListUsers_RejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.ListUsers(context.Background(), ListUsersParams{Role: "root"})

	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func ptr[T any](v T) *T {
	return &v
}
