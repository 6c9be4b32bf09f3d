// AngelaMos | 2026
// repository.go

package application

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type Repository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	Exists(ctx context.Context, jobID, applicantID string) (bool, error)
	Update(ctx context.Context, app *Application) error
	ListByJob(
		ctx context.Context,
		jobID string,
		page, pageSize int,
	) ([]Application, int, error)
	ListByApplicant(
		ctx context.Context,
		applicantID string,
		page, pageSize int,
	) ([]Application, int, error)
	CountByStatus(ctx context.Context, scope Scope) (map[string]int, error)
	MonthlyCounts(
		ctx context.Context,
		scope Scope,
		since time.Time,
	) (map[string]int, error)
	Recent(ctx context.Context, recruiterID string, limit int) ([]Application, error)
	AppliedJobIDs(ctx context.Context, applicantID string) ([]string, error)
}

const applicationColumns = `
	id, job_id, applicant_id, recruiter_id, cover_letter, resume_id, status,
	notes, applied_at, reviewed_at, interviewed_at, offered_at, rejected_at,
	withdrawn_at, is_viewed, viewed_at, created_at, updated_at`

// MonthKey is the bucket format used by MonthlyCounts.
const MonthKey = "2006-01"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create inserts the application and bumps the job's counters in one
// transaction. A second application for the same job and applicant trips
// the unique index and surfaces as ErrDuplicateKey.
func (r *repository) Create(ctx context.Context, app *Application) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO applications (id, job_id, applicant_id, recruiter_id,
			                          cover_letter, resume_id, status, applied_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at, updated_at`

		err := tx.QueryRowxContext(ctx, insert,
			app.ID,
			app.JobID,
			app.ApplicantID,
			app.RecruiterID,
			app.CoverLetter,
			app.ResumeID,
			app.Status,
			app.AppliedAt,
		).Scan(&app.CreatedAt, &app.UpdatedAt)
		if err != nil {
			if core.IsDuplicateKeyError(err) {
				return fmt.Errorf("create application: %w", core.ErrDuplicateKey)
			}
			return fmt.Errorf("create application: %w", err)
		}

		counters := `
			UPDATE jobs
			SET application_count = application_count + 1,
			    applicant_ids = array_append(applicant_ids, $2::text),
			    updated_at = NOW()
			WHERE id = $1`

		return core.ExecOne(ctx, tx, "bump job counters", counters,
			app.JobID, app.ApplicantID)
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	var app Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, core.MapNoRows("get application", err)
	}

	return &app, nil
}

func (r *repository) Exists(
	ctx context.Context,
	jobID, applicantID string,
) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND applicant_id = $2)`,
		jobID, applicantID,
	)
	if err != nil {
		return false, fmt.Errorf("check application exists: %w", err)
	}

	return exists, nil
}

// Update writes the status columns, notes and the viewed flag.
func (r *repository) Update(ctx context.Context, app *Application) error {
	query := `
		UPDATE applications
		SET status = $2, notes = $3, reviewed_at = $4, interviewed_at = $5,
		    offered_at = $6, rejected_at = $7, withdrawn_at = $8,
		    is_viewed = $9, viewed_at = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &app.UpdatedAt, query,
		app.ID,
		app.Status,
		app.Notes,
		app.ReviewedAt,
		app.InterviewedAt,
		app.OfferedAt,
		app.RejectedAt,
		app.WithdrawnAt,
		app.IsViewed,
		app.ViewedAt,
	)
	if err != nil {
		return core.MapNoRows("update application", err)
	}

	return nil
}

func (r *repository) ListByJob(
	ctx context.Context,
	jobID string,
	page, pageSize int,
) ([]Application, int, error) {
	return r.listBy(ctx, "job_id", jobID, page, pageSize)
}

func (r *repository) ListByApplicant(
	ctx context.Context,
	applicantID string,
	page, pageSize int,
) ([]Application, int, error) {
	return r.listBy(ctx, "applicant_id", applicantID, page, pageSize)
}

// listBy pages applications filtered on one id column. column is always a
// constant from this file.
func (r *repository) listBy(
	ctx context.Context,
	column, id string,
	page, pageSize int,
) ([]Application, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM applications WHERE ` + column + ` = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, id); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE ` + column + ` = $1
		ORDER BY applied_at DESC
		LIMIT $2 OFFSET $3`

	var apps []Application
	if err := r.db.SelectContext(ctx, &apps, query,
		id, pageSize, (page-1)*pageSize,
	); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	return apps, total, nil
}

func (r *repository) CountByStatus(
	ctx context.Context,
	scope Scope,
) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM applications
		WHERE ($1 = '' OR recruiter_id::text = $1)
		  AND ($2 = '' OR applicant_id::text = $2)
		GROUP BY status`

	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query,
		scope.RecruiterID, scope.ApplicantID,
	); err != nil {
		return nil, fmt.Errorf("count applications by status: %w", err)
	}

	counts := make(map[string]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

// MonthlyCounts buckets applications by UTC calendar month of appliedAt.
// Keys use MonthKey; months without applications are absent.
func (r *repository) MonthlyCounts(
	ctx context.Context,
	scope Scope,
	since time.Time,
) (map[string]int, error) {
	query := `
		SELECT to_char(date_trunc('month', applied_at AT TIME ZONE 'UTC'), 'YYYY-MM') AS month,
		       COUNT(*) AS count
		FROM applications
		WHERE ($1 = '' OR recruiter_id::text = $1)
		  AND ($2 = '' OR applicant_id::text = $2)
		  AND applied_at >= $3
		GROUP BY month`

	var rows []struct {
		Month string `db:"month"`
		Count int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query,
		scope.RecruiterID, scope.ApplicantID, since,
	); err != nil {
		return nil, fmt.Errorf("monthly application counts: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Month] = row.Count
	}

	return counts, nil
}

func (r *repository) Recent(
	ctx context.Context,
	recruiterID string,
	limit int,
) ([]Application, error) {
	query := `SELECT ` + applicationColumns + `
		FROM applications
		WHERE recruiter_id = $1
		ORDER BY applied_at DESC
		LIMIT $2`

	var apps []Application
	if err := r.db.SelectContext(ctx, &apps, query, recruiterID, limit); err != nil {
		return nil, fmt.Errorf("recent applications: %w", err)
	}

	return apps, nil
}

func (r *repository) AppliedJobIDs(
	ctx context.Context,
	applicantID string,
) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids,
		`SELECT job_id::text FROM applications WHERE applicant_id = $1`,
		applicantID,
	); err != nil {
		return nil, fmt.Errorf("applied job ids: %w", err)
	}

	return ids, nil
}
