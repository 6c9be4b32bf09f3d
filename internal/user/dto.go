// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateProfileRequest struct {
	Email             *string   `json:"email,omitempty"             validate:"omitempty,email,max=255"`
	FirstName         *string   `json:"firstName,omitempty"         validate:"omitempty,min=1,max=100"`
	LastName          *string   `json:"lastName,omitempty"          validate:"omitempty,min=1,max=100"`
	CustomURL         *string   `json:"customUrl,omitempty"         validate:"omitempty,min=3,max=100,hostname_rfc1123"`
	Bio               *string   `json:"bio,omitempty"               validate:"omitempty,max=2000"`
	Location          *string   `json:"location,omitempty"          validate:"omitempty,max=200"`
	Phone             *string   `json:"phone,omitempty"             validate:"omitempty,max=50"`
	AvatarURL         *string   `json:"avatarUrl,omitempty"         validate:"omitempty,url,max=500"`
	LinkedIn          *string   `json:"linkedin,omitempty"          validate:"omitempty,max=500"`
	GitHub            *string   `json:"github,omitempty"            validate:"omitempty,max=500"`
	Website           *string   `json:"website,omitempty"           validate:"omitempty,url,max=500"`
	Skills            *[]string `json:"skills,omitempty"            validate:"omitempty,max=50,dive,min=1,max=100"`
	ExperienceLevel   *string   `json:"experienceLevel,omitempty"   validate:"omitempty,oneof=entry mid senior lead"`
	YearsOfExperience *int      `json:"yearsOfExperience,omitempty" validate:"omitempty,min=0,max=70"`
	CurrentCompany    *string   `json:"currentCompany,omitempty"    validate:"omitempty,max=200"`
	CurrentPosition   *string   `json:"currentPosition,omitempty"   validate:"omitempty,max=200"`
	Education         *[]string `json:"education,omitempty"         validate:"omitempty,max=20,dive,min=1,max=300"`
	Certifications    *[]string `json:"certifications,omitempty"    validate:"omitempty,max=50,dive,min=1,max=300"`
	Company           *string   `json:"company,omitempty"           validate:"omitempty,max=200"`
	Industry          *string   `json:"industry,omitempty"          validate:"omitempty,max=200"`
	JobTitle          *string   `json:"jobTitle,omitempty"          validate:"omitempty,max=200"`
}

type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Role *string `json:"role,omitempty" validate:"omitempty,oneof=developer recruiter admin"`
}

type AddResumeRequest struct {
	FileName string `json:"fileName" validate:"required,min=1,max=255"`
	FileURL  string `json:"fileUrl"  validate:"required,url,max=1000"`
	FileSize int64  `json:"fileSize" validate:"min=0"`
	MimeType string `json:"mimeType" validate:"omitempty,max=100"`
}

type ProfileResponse struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Role              string     `json:"role"`
	CustomURL         string     `json:"customUrl"`
	Bio               string     `json:"bio"`
	Location          string     `json:"location"`
	Phone             string     `json:"phone"`
	AvatarURL         string     `json:"avatarUrl"`
	LinkedIn          string     `json:"linkedin"`
	GitHub            string     `json:"github"`
	Website           string     `json:"website"`
	Skills            []string   `json:"skills"`
	ExperienceLevel   string     `json:"experienceLevel"`
	YearsOfExperience *int       `json:"yearsOfExperience"`
	CurrentCompany    string     `json:"currentCompany"`
	CurrentPosition   string     `json:"currentPosition"`
	Education         []string   `json:"education"`
	Certifications    []string   `json:"certifications"`
	Company           string     `json:"company"`
	Industry          string     `json:"industry"`
	JobTitle          string     `json:"jobTitle"`
	IsProfileComplete bool       `json:"isProfileComplete"`
	MissingFields     []string   `json:"missingFields,omitempty"`
	ProfileViews      int        `json:"profileViews"`
	ResumeIDs         []string   `json:"resumeIds"`
	LastLoginAt       *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// PublicProfileResponse is what anyone can see through a custom URL.
// Contact details and resumes stay private.
type PublicProfileResponse struct {
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	Role              string   `json:"role"`
	CustomURL         string   `json:"customUrl"`
	Bio               string   `json:"bio"`
	Location          string   `json:"location"`
	AvatarURL         string   `json:"avatarUrl"`
	LinkedIn          string   `json:"linkedin"`
	GitHub            string   `json:"github"`
	Website           string   `json:"website"`
	Skills            []string `json:"skills"`
	ExperienceLevel   string   `json:"experienceLevel"`
	YearsOfExperience *int     `json:"yearsOfExperience"`
	CurrentCompany    string   `json:"currentCompany"`
	CurrentPosition   string   `json:"currentPosition"`
	Company           string   `json:"company"`
	Industry          string   `json:"industry"`
	JobTitle          string   `json:"jobTitle"`
	ProfileViews      int      `json:"profileViews"`
}

type ResumeResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	FileSize   int64     `json:"fileSize"`
	MimeType   string    `json:"mimeType"`
	UploadedAt time.Time `json:"uploadedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	IsExpired  bool      `json:"isExpired"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToProfileResponse(u *User) ProfileResponse {
	return ProfileResponse{
		ID:                u.ID,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Role:              u.Role,
		CustomURL:         u.CustomURL,
		Bio:               u.Bio,
		Location:          u.Location,
		Phone:             u.Phone,
		AvatarURL:         u.AvatarURL,
		LinkedIn:          u.LinkedIn,
		GitHub:            u.GitHub,
		Website:           u.Website,
		Skills:            nonNil(u.Skills),
		ExperienceLevel:   u.ExperienceLevel,
		YearsOfExperience: u.YearsOfExperience,
		CurrentCompany:    u.CurrentCompany,
		CurrentPosition:   u.CurrentPosition,
		Education:         nonNil(u.Education),
		Certifications:    nonNil(u.Certifications),
		Company:           u.Company,
		Industry:          u.Industry,
		JobTitle:          u.JobTitle,
		IsProfileComplete: u.IsProfileComplete,
		MissingFields:     MissingProfileFields(u),
		ProfileViews:      u.ProfileViews,
		ResumeIDs:         nonNil(u.ResumeIDs),
		LastLoginAt:       u.LastLoginAt,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func ToPublicProfileResponse(u *User) PublicProfileResponse {
	return PublicProfileResponse{
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Role:              u.Role,
		CustomURL:         u.CustomURL,
		Bio:               u.Bio,
		Location:          u.Location,
		AvatarURL:         u.AvatarURL,
		LinkedIn:          u.LinkedIn,
		GitHub:            u.GitHub,
		Website:           u.Website,
		Skills:            nonNil(u.Skills),
		ExperienceLevel:   u.ExperienceLevel,
		YearsOfExperience: u.YearsOfExperience,
		CurrentCompany:    u.CurrentCompany,
		CurrentPosition:   u.CurrentPosition,
		Company:           u.Company,
		Industry:          u.Industry,
		JobTitle:          u.JobTitle,
		ProfileViews:      u.ProfileViews,
	}
}

func ToProfileResponseList(users []User) []ProfileResponse {
	responses := make([]ProfileResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToProfileResponse(&users[i]))
	}
	return responses
}

func ToResumeResponse(r *Resume, now time.Time) ResumeResponse {
	return ResumeResponse{
		ID:         r.ID,
		FileName:   r.FileName,
		FileURL:    r.FileURL,
		FileSize:   r.FileSize,
		MimeType:   r.MimeType,
		UploadedAt: r.UploadedAt,
		ExpiresAt:  r.ExpiresAt,
		IsExpired:  r.IsExpired(now),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
