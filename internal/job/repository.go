// AngelaMos | 2026
// repository.go

package job

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type Repository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListJobsParams) ([]Job, int, error)
	ListByRecruiter(
		ctx context.Context,
		recruiterID string,
		page, pageSize int,
	) ([]Job, int, error)
	IncrementViews(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, recruiterID string) (map[string]int, error)
	Totals(ctx context.Context, recruiterID string) (views, applications int, err error)
	Recent(ctx context.Context, recruiterID string, limit int) ([]Job, error)
	Recommend(
		ctx context.Context,
		skills []string,
		excludeIDs []string,
		limit int,
	) ([]Job, error)
}

const jobColumns = `
	id, recruiter_id, title, description, company, location,
	employment_type, experience_level, is_remote, is_urgent,
	salary_min, salary_max, salary_currency, required_skills, benefits,
	status, view_count, application_count, applicant_ids,
	published_at, closed_at, created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, job *Job) error {
	query := `
		INSERT INTO jobs (id, recruiter_id, title, description, company,
		                  location, employment_type, experience_level,
		                  is_remote, is_urgent, salary_min, salary_max,
		                  salary_currency, required_skills, benefits, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		job.ID,
		job.RecruiterID,
		job.Title,
		job.Description,
		job.Company,
		job.Location,
		job.EmploymentType,
		job.ExperienceLevel,
		job.IsRemote,
		job.IsUrgent,
		job.SalaryMin,
		job.SalaryMax,
		job.SalaryCurrency,
		job.RequiredSkills,
		job.Benefits,
		job.Status,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	var job Job
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, core.MapNoRows("get job", err)
	}

	return &job, nil
}

// Update writes the editable columns. recruiter_id and the counters are
// never touched here.
func (r *repository) Update(ctx context.Context, job *Job) error {
	query := `
		UPDATE jobs
		SET title = $2, description = $3, company = $4, location = $5,
		    employment_type = $6, experience_level = $7, is_remote = $8,
		    is_urgent = $9, salary_min = $10, salary_max = $11,
		    salary_currency = $12, required_skills = $13, benefits = $14,
		    status = $15, published_at = $16, closed_at = $17,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &job.UpdatedAt, query,
		job.ID,
		job.Title,
		job.Description,
		job.Company,
		job.Location,
		job.EmploymentType,
		job.ExperienceLevel,
		job.IsRemote,
		job.IsUrgent,
		job.SalaryMin,
		job.SalaryMax,
		job.SalaryCurrency,
		job.RequiredSkills,
		job.Benefits,
		job.Status,
		job.PublishedAt,
		job.ClosedAt,
	)
	if err != nil {
		return core.MapNoRows("update job", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, r.db, "delete job", `DELETE FROM jobs WHERE id = $1`, id)
}

// List returns the public listing. Drafts are always excluded; a status
// filter narrows further rather than overriding that rule.
func (r *repository) List(
	ctx context.Context,
	params ListJobsParams,
) ([]Job, int, error) {
	params.Normalize()

	conditions := []string{"status <> 'draft'"}
	var args []any
	argIdx := 1

	add := func(cond string, arg any) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, arg)
		argIdx++
	}

	if params.Status != "" {
		add("status = $%d", params.Status)
	}
	if params.EmploymentType != "" {
		add("employment_type = $%d", params.EmploymentType)
	}
	if params.ExperienceLevel != "" {
		add("experience_level = $%d", params.ExperienceLevel)
	}
	if params.IsRemote != nil {
		add("is_remote = $%d", *params.IsRemote)
	}
	if params.Location != "" {
		add("location ILIKE $%d", "%"+core.EscapeLike(params.Location)+"%")
	}
	if len(params.Skills) > 0 {
		add(
			"EXISTS (SELECT 1 FROM unnest(required_skills) s WHERE lower(s) = ANY($%d))",
			pq.Array(params.Skills),
		)
	}
	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR company ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM jobs WHERE ` + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM jobs
		WHERE %s
		ORDER BY is_urgent DESC, COALESCE(published_at, created_at) DESC
		LIMIT $%d OFFSET $%d`,
		jobColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var jobs []Job
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}

	return jobs, total, nil
}

func (r *repository) ListByRecruiter(
	ctx context.Context,
	recruiterID string,
	page, pageSize int,
) ([]Job, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM jobs WHERE recruiter_id = $1`,
		recruiterID,
	); err != nil {
		return nil, 0, fmt.Errorf("count recruiter jobs: %w", err)
	}

	query := `SELECT ` + jobColumns + `
		FROM jobs
		WHERE recruiter_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var jobs []Job
	if err := r.db.SelectContext(ctx, &jobs, query,
		recruiterID, pageSize, (page-1)*pageSize,
	); err != nil {
		return nil, 0, fmt.Errorf("list recruiter jobs: %w", err)
	}

	return jobs, total, nil
}

func (r *repository) IncrementViews(ctx context.Context, id string) error {
	return core.ExecOne(ctx, r.db, "increment job views",
		`UPDATE jobs SET view_count = view_count + 1 WHERE id = $1`, id)
}

// CountByStatus counts jobs per status. An empty recruiterID counts every
// job on the platform.
func (r *repository) CountByStatus(
	ctx context.Context,
	recruiterID string,
) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM jobs
		WHERE ($1 = '' OR recruiter_id::text = $1)
		GROUP BY status`

	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, recruiterID); err != nil {
		return nil, fmt.Errorf("count jobs by status: %w", err)
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

func (r *repository) Totals(
	ctx context.Context,
	recruiterID string,
) (int, int, error) {
	query := `
		SELECT COALESCE(SUM(view_count), 0) AS views,
		       COALESCE(SUM(application_count), 0) AS applications
		FROM jobs
		WHERE ($1 = '' OR recruiter_id::text = $1)`

	var totals struct {
		Views        int `db:"views"`
		Applications int `db:"applications"`
	}
	if err := r.db.GetContext(ctx, &totals, query, recruiterID); err != nil {
		return 0, 0, fmt.Errorf("sum job counters: %w", err)
	}

	return totals.Views, totals.Applications, nil
}

func (r *repository) Recent(
	ctx context.Context,
	recruiterID string,
	limit int,
) ([]Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs
		WHERE recruiter_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	var jobs []Job
	if err := r.db.SelectContext(ctx, &jobs, query, recruiterID, limit); err != nil {
		return nil, fmt.Errorf("recent jobs: %w", err)
	}

	return jobs, nil
}

// Recommend returns published jobs whose required skills contain any of the
// given skills as a case-insensitive substring. No skills matches every
// published job.
func (r *repository) Recommend(
	ctx context.Context,
	skills []string,
	excludeIDs []string,
	limit int,
) ([]Job, error) {
	patterns := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			patterns = append(patterns, "%"+core.EscapeLike(s)+"%")
		}
	}

	if excludeIDs == nil {
		excludeIDs = []string{}
	}

	query := `SELECT ` + jobColumns + `
		FROM jobs
		WHERE status = 'published'
		  AND NOT (id::text = ANY($1))
		  AND (cardinality($2::text[]) = 0 OR EXISTS (
		        SELECT 1 FROM unnest(required_skills) s
		        WHERE s ILIKE ANY($2::text[])))
		ORDER BY is_urgent DESC, published_at DESC NULLS LAST
		LIMIT $3`

	var jobs []Job
	if err := r.db.SelectContext(ctx, &jobs, query,
		pq.Array(excludeIDs),
		pq.Array(patterns),
		limit,
	); err != nil {
		return nil, fmt.Errorf("recommend jobs: %w", err)
	}

	return jobs, nil
}
