// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID                string         `db:"id"`
	Email             string         `db:"email"`
	PasswordHash      string         `db:"password_hash"`
	FirstName         string         `db:"first_name"`
	LastName          string         `db:"last_name"`
	Role              string         `db:"role"`
	CustomURL         string         `db:"custom_url"`
	Bio               string         `db:"bio"`
	Location          string         `db:"location"`
	Phone             string         `db:"phone"`
	AvatarURL         string         `db:"avatar_url"`
	LinkedIn          string         `db:"linkedin"`
	GitHub            string         `db:"github"`
	Website           string         `db:"website"`
	Skills            pq.StringArray `db:"skills"`
	ExperienceLevel   string         `db:"experience_level"`
	YearsOfExperience *int           `db:"years_of_experience"`
	CurrentCompany    string         `db:"current_company"`
	CurrentPosition   string         `db:"current_position"`
	Education         pq.StringArray `db:"education"`
	Certifications    pq.StringArray `db:"certifications"`
	Company           string         `db:"company"`
	Industry          string         `db:"industry"`
	JobTitle          string         `db:"job_title"`
	IsProfileComplete bool           `db:"is_profile_complete"`
	ProfileViews      int            `db:"profile_views"`
	RefreshTokenHash  *string        `db:"refresh_token_hash"`
	LastLoginAt       *time.Time     `db:"last_login_at"`
	ResumeIDs         pq.StringArray `db:"resume_ids"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
	DeletedAt         *time.Time     `db:"deleted_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Resume struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	FileName   string    `db:"file_name"`
	FileURL    string    `db:"file_url"`
	FileSize   int64     `db:"file_size"`
	MimeType   string    `db:"mime_type"`
	UploadedAt time.Time `db:"uploaded_at"`
	ExpiresAt  time.Time `db:"expires_at"`
	IsActive   bool      `db:"is_active"`
}

func (r *Resume) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

const (
	RoleDeveloper = "developer"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleDeveloper, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}
