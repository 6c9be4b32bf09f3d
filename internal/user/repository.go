// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByCustomURL(ctx context.Context, customURL string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string) error
	SetRefreshTokenHash(ctx context.Context, id string, hash *string) error
	IncrementProfileViews(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByCustomURL(ctx context.Context, customURL string) (bool, error)
	CountByRole(ctx context.Context) (map[string]int, error)

	AddResume(ctx context.Context, resume *Resume) error
	ListResumes(ctx context.Context, userID string) ([]Resume, error)
	CountResumes(ctx context.Context, userID string) (int, error)
	DeleteResume(ctx context.Context, userID, resumeID string) error
}

const userColumns = `
	id, email, password_hash, first_name, last_name, role, custom_url,
	bio, location, phone, avatar_url, linkedin, github, website,
	skills, experience_level, years_of_experience, current_company,
	current_position, education, certifications, company, industry,
	job_title, is_profile_complete, profile_views, refresh_token_hash,
	last_login_at, resume_ids, created_at, updated_at, deleted_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name,
		                   role, custom_url, is_profile_complete)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.CustomURL,
		user.IsProfileComplete,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		switch core.DuplicateConstraint(err) {
		case "":
			return fmt.Errorf("create user: %w", err)
		case emailUniqueIndex:
			return fmt.Errorf("create user: %w", errEmailTaken)
		default:
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	var user User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, core.MapNoRows("get user", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND deleted_at IS NULL`

	var user User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, core.MapNoRows("get user by email", err)
	}

	return &user, nil
}

func (r *repository) GetByCustomURL(
	ctx context.Context,
	customURL string,
) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE custom_url = $1 AND deleted_at IS NULL`

	var user User
	if err := r.db.GetContext(ctx, &user, query, customURL); err != nil {
		return nil, core.MapNoRows("get user by custom url", err)
	}

	return &user, nil
}

// Update writes every mutable profile column together with the derived
// completeness flag in one statement.
func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, role = $5,
		    custom_url = $6, bio = $7, location = $8, phone = $9,
		    avatar_url = $10, linkedin = $11, github = $12, website = $13,
		    skills = $14, experience_level = $15, years_of_experience = $16,
		    current_company = $17, current_position = $18, education = $19,
		    certifications = $20, company = $21, industry = $22,
		    job_title = $23, is_profile_complete = $24, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Role,
		user.CustomURL,
		user.Bio,
		user.Location,
		user.Phone,
		user.AvatarURL,
		user.LinkedIn,
		user.GitHub,
		user.Website,
		user.Skills,
		user.ExperienceLevel,
		user.YearsOfExperience,
		user.CurrentCompany,
		user.CurrentPosition,
		user.Education,
		user.Certifications,
		user.Company,
		user.Industry,
		user.JobTitle,
		user.IsProfileComplete,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return core.MapNoRows("update user", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return core.ExecOne(ctx, r.db, "update password", query, id, passwordHash)
}

func (r *repository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET last_login_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return core.ExecOne(ctx, r.db, "update last login", query, id)
}

// SetRefreshTokenHash replaces the single refresh slot. A nil hash clears it.
func (r *repository) SetRefreshTokenHash(
	ctx context.Context,
	id string,
	hash *string,
) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $2
		WHERE id = $1 AND deleted_at IS NULL`

	return core.ExecOne(ctx, r.db, "set refresh token", query, id, hash)
}

func (r *repository) IncrementProfileViews(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET profile_views = profile_views + 1
		WHERE id = $1 AND deleted_at IS NULL`

	return core.ExecOne(ctx, r.db, "increment profile views", query, id)
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET deleted_at = NOW(), updated_at = NOW(), refresh_token_hash = NULL
		WHERE id = $1 AND deleted_at IS NULL`

	return core.ExecOne(ctx, r.db, "delete user", query, id)
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

func (r *repository) ExistsByCustomURL(
	ctx context.Context,
	customURL string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE custom_url = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, customURL); err != nil {
		return false, fmt.Errorf("check custom url exists: %w", err)
	}

	return exists, nil
}

func (r *repository) CountByRole(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT role, COUNT(*) AS count
		FROM users
		WHERE deleted_at IS NULL
		GROUP BY role`

	var rows []struct {
		Role  string `db:"role"`
		Count int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}

	counts := map[string]int{
		RoleDeveloper: 0,
		RoleRecruiter: 0,
		RoleAdmin:     0,
	}
	for _, row := range rows {
		counts[row.Role] = row.Count
	}

	return counts, nil
}

// AddResume inserts the resume and appends its id to the owner's resume
// list in one transaction.
func (r *repository) AddResume(ctx context.Context, resume *Resume) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO resumes (id, user_id, file_name, file_url, file_size,
			                     mime_type, uploaded_at, expires_at, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)`

		if _, err := tx.ExecContext(ctx, insert,
			resume.ID,
			resume.UserID,
			resume.FileName,
			resume.FileURL,
			resume.FileSize,
			resume.MimeType,
			resume.UploadedAt,
			resume.ExpiresAt,
		); err != nil {
			return fmt.Errorf("insert resume: %w", err)
		}

		link := `
			UPDATE users
			SET resume_ids = array_append(resume_ids, $2), updated_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL`

		if err := core.ExecOne(ctx, tx, "link resume", link,
			resume.UserID, resume.ID); err != nil {
			return err
		}

		resume.IsActive = true
		return nil
	})
}

func (r *repository) ListResumes(
	ctx context.Context,
	userID string,
) ([]Resume, error) {
	query := `
		SELECT id, user_id, file_name, file_url, file_size, mime_type,
		       uploaded_at, expires_at, is_active
		FROM resumes
		WHERE user_id = $1 AND is_active
		ORDER BY uploaded_at DESC`

	var resumes []Resume
	if err := r.db.SelectContext(ctx, &resumes, query, userID); err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}

	return resumes, nil
}

func (r *repository) CountResumes(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM resumes WHERE user_id = $1 AND is_active`

	var n int
	if err := r.db.GetContext(ctx, &n, query, userID); err != nil {
		return 0, fmt.Errorf("count resumes: %w", err)
	}

	return n, nil
}

// DeleteResume deactivates a resume owned by userID and drops it from the
// owner's resume list. A resume owned by someone else is reported as
// not found.
func (r *repository) DeleteResume(
	ctx context.Context,
	userID, resumeID string,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		deactivate := `
			UPDATE resumes
			SET is_active = FALSE
			WHERE id = $1 AND user_id = $2 AND is_active`

		if err := core.ExecOne(ctx, tx, "delete resume", deactivate,
			resumeID, userID); err != nil {
			return err
		}

		unlink := `
			UPDATE users
			SET resume_ids = array_remove(resume_ids, $2), updated_at = NOW()
			WHERE id = $1`

		if _, err := tx.ExecContext(ctx, unlink, userID, resumeID); err != nil {
			return fmt.Errorf("unlink resume: %w", err)
		}

		return nil
	})
}
