// AngelaMos | 2026
// service_test.go

package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/job"
	"github.com/carterperez-dev/jobboard/internal/middleware"
	"github.com/carterperez-dev/jobboard/internal/user"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

const (
	recruiterR = "11111111-1111-1111-1111-111111111111"
	developerD = "22222222-2222-2222-2222-222222222222"
	otherDev   = "33333333-3333-3333-3333-333333333333"
	jobJ       = "44444444-4444-4444-4444-444444444444"
	draftJob   = "55555555-5555-5555-5555-555555555555"
)

const (
	resumeOwn     = "66666666-6666-6666-6666-666666666666"
	resumeOther   = "77777777-7777-7777-7777-777777777777"
	resumeExpired = "88888888-8888-8888-8888-888888888888"
)

type fixture struct {
	svc     *Service
	repo    *memRepo
	jobs    *memJobs
	resumes *memResumes
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	jobs := newMemJobs()
	published := fixedNow.Add(-24 * time.Hour)
	jobs.put(job.Job{
		ID:          jobJ,
		RecruiterID: recruiterR,
		Title:       "Backend Engineer",
		Status:      job.StatusPublished,
		PublishedAt: &published,
	})
	jobs.put(job.Job{ID: draftJob, RecruiterID: recruiterR, Status: job.StatusDraft})

	resumes := newMemResumes()
	resumes.put(user.Resume{
		ID:        resumeOwn,
		UserID:    developerD,
		ExpiresAt: fixedNow.AddDate(0, 0, 30),
		IsActive:  true,
	})
	resumes.put(user.Resume{
		ID:        resumeOther,
		UserID:    otherDev,
		ExpiresAt: fixedNow.AddDate(0, 0, 30),
		IsActive:  true,
	})
	resumes.put(user.Resume{
		ID:        resumeExpired,
		UserID:    developerD,
		ExpiresAt: fixedNow.Add(-time.Minute),
		IsActive:  true,
	})

	repo := newMemRepo(jobs)
	svc := NewService(repo, jobs, resumes, nil)
	svc.now = func() time.Time { return fixedNow }
	return fixture{svc: svc, repo: repo, jobs: jobs, resumes: resumes}
}

func (f fixture) apply(t *testing.T, applicant, jobID string) *Application {
	t.Helper()
	app, err := f.svc.Create(context.Background(), applicant, CreateApplicationRequest{
		JobID:       jobID,
		CoverLetter: "  Hello  ",
	})
	require.NoError(t, err)
	return app
}

func assertStatusCode(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *core.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.StatusCode)
}

func TestCreate_DenormalizesAndBumpsJob(t *testing.T) {
	f := newFixture(t)

	app := f.apply(t, developerD, jobJ)

	assert.Equal(t, StatusApplied, app.Status)
	assert.Equal(t, recruiterR, app.RecruiterID)
	assert.Equal(t, "Hello", app.CoverLetter)
	assert.Equal(t, fixedNow, app.AppliedAt)

	j, err := f.jobs.GetByID(context.Background(), jobJ)
	require.NoError(t, err)
	assert.Equal(t, 1, j.ApplicationCount)
	assert.Equal(t, []string{developerD}, []string(j.ApplicantIDs))
}

func TestCreate_RejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	f.apply(t, developerD, jobJ)

	_, err := f.svc.Create(context.Background(), developerD, CreateApplicationRequest{JobID: jobJ})

	assert.ErrorIs(t, err, core.ErrDuplicateKey)
	assertStatusCode(t, err, 409)

	j, _ := f.jobs.GetByID(context.Background(), jobJ)
	assert.Equal(t, 1, j.ApplicationCount)
}

func TestCreate_ResumeMustBeOwnActiveResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{resumeOther, resumeExpired, "99999999-9999-9999-9999-999999999999"} {
		resumeID := id
		_, err := f.svc.Create(ctx, developerD, CreateApplicationRequest{
			JobID:    jobJ,
			ResumeID: &resumeID,
		})
		assertStatusCode(t, err, 400)
	}

	j, err := f.jobs.GetByID(ctx, jobJ)
	require.NoError(t, err)
	assert.Zero(t, j.ApplicationCount)

	resumeID := resumeOwn
	app, err := f.svc.Create(ctx, developerD, CreateApplicationRequest{
		JobID:    jobJ,
		ResumeID: &resumeID,
	})
	require.NoError(t, err)
	require.NotNil(t, app.ResumeID)
	assert.Equal(t, resumeOwn, *app.ResumeID)
}

func TestCreate_UnpublishedOrMissingJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, developerD, CreateApplicationRequest{JobID: draftJob})
	assertStatusCode(t, err, 400)

	_, err = f.svc.Create(ctx, developerD, CreateApplicationRequest{
		JobID: "99999999-9999-9999-9999-999999999999",
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateStatus_StampsTimestamps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t, developerD, jobJ)

	tests := []struct {
		status string
		stamp  func(a *Application) *time.Time
	}{
		{StatusReviewing, func(a *Application) *time.Time { return a.ReviewedAt }},
		{StatusInterviewing, func(a *Application) *time.Time { return a.InterviewedAt }},
		{StatusRejected, func(a *Application) *time.Time { return a.RejectedAt }},
		{StatusReviewing, func(a *Application) *time.Time { return a.ReviewedAt }},
		{StatusOffered, func(a *Application) *time.Time { return a.OfferedAt }},
	}

	for i, tt := range tests {
		at := fixedNow.Add(time.Duration(i+1) * time.Hour)
		f.svc.now = func() time.Time { return at }

		updated, err := f.svc.UpdateStatus(ctx, app.ID, recruiterR, UpdateStatusRequest{
			Status: tt.status,
		})
		require.NoError(t, err, tt.status)
		assert.Equal(t, tt.status, updated.Status)
		require.NotNil(t, tt.stamp(updated), tt.status)
		assert.Equal(t, at, *tt.stamp(updated), tt.status)
	}
}

func TestUpdateStatus_Refusals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t, developerD, jobJ)

	_, err := f.svc.UpdateStatus(ctx, app.ID, otherDev, UpdateStatusRequest{Status: StatusReviewing})
	assert.ErrorIs(t, err, core.ErrForbidden)

	_, err = f.svc.UpdateStatus(ctx, app.ID, recruiterR, UpdateStatusRequest{Status: StatusWithdrawn})
	assertStatusCode(t, err, 400)

	_, err = f.svc.UpdateStatus(ctx, "missing", recruiterR, UpdateStatusRequest{Status: StatusReviewing})
	assert.ErrorIs(t, err, core.ErrNotFound)

	stored, err := f.repo.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApplied, stored.Status)

	_, err = f.svc.Withdraw(ctx, app.ID, developerD)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, app.ID, recruiterR, UpdateStatusRequest{Status: StatusReviewing})
	assertStatusCode(t, err, 400)
}

func TestUpdateStatus_StoresNotes(t *testing.T) {
	f := newFixture(t)
	app := f.apply(t, developerD, jobJ)
	notes := "  strong systems background "

	updated, err := f.svc.UpdateStatus(context.Background(), app.ID, recruiterR,
		UpdateStatusRequest{Status: StatusReviewing, Notes: &notes})

	require.NoError(t, err)
	assert.Equal(t, "strong systems background", updated.Notes)
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t, developerD, jobJ)

	_, err := f.svc.Withdraw(ctx, app.ID, otherDev)
	assert.ErrorIs(t, err, core.ErrForbidden)

	withdrawn, err := f.svc.Withdraw(ctx, app.ID, developerD)
	require.NoError(t, err)
	assert.Equal(t, StatusWithdrawn, withdrawn.Status)
	require.NotNil(t, withdrawn.WithdrawnAt)
	assert.Equal(t, fixedNow, *withdrawn.WithdrawnAt)

	_, err = f.svc.Withdraw(ctx, app.ID, developerD)
	assertStatusCode(t, err, 400)
}

func TestWithdraw_OfferedIsFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t, developerD, jobJ)

	_, err := f.svc.UpdateStatus(ctx, app.ID, recruiterR, UpdateStatusRequest{Status: StatusOffered})
	require.NoError(t, err)

	_, err = f.svc.Withdraw(ctx, app.ID, developerD)
	assertStatusCode(t, err, 400)

	stored, _ := f.repo.GetByID(ctx, app.ID)
	assert.Equal(t, StatusOffered, stored.Status)
	assert.Nil(t, stored.WithdrawnAt)
}

func TestMarkViewed_KeepsFirstView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t, developerD, jobJ)

	_, err := f.svc.MarkViewed(ctx, app.ID, developerD)
	assert.ErrorIs(t, err, core.ErrForbidden)

	first, err := f.svc.MarkViewed(ctx, app.ID, recruiterR)
	require.NoError(t, err)
	assert.True(t, first.IsViewed)

	f.svc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	second, err := f.svc.MarkViewed(ctx, app.ID, recruiterR)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, *second.ViewedAt)
}

func TestListByJob_HiddenFromOtherRecruiters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.apply(t, developerD, jobJ)
	f.apply(t, otherDev, jobJ)

	apps, total, err := f.svc.ListByJob(ctx, jobJ, recruiterR, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, apps, 2)

	_, _, err = f.svc.ListByJob(ctx, jobJ, otherDev, 1, 20)
	assert.ErrorIs(t, err, core.ErrNotFound)

	mine, total, err := f.svc.ListMine(ctx, developerD, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, jobJ, mine[0].JobID)
}

func TestGet_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t, developerD, jobJ)

	tests := []struct {
		name    string
		caller  middleware.Principal
		visible bool
	}{
		{"applicant", middleware.Principal{UserID: developerD, Role: "developer"}, true},
		{"recruiter", middleware.Principal{UserID: recruiterR, Role: "recruiter"}, true},
		{"admin", middleware.Principal{UserID: "admin-1", Role: "admin"}, true},
		{"stranger", middleware.Principal{UserID: otherDev, Role: "developer"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Get(ctx, app.ID, tt.caller)
			if tt.visible {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, core.ErrNotFound)
			}
		})
	}
}
