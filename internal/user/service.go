// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/jobboard/internal/auth"
	"github.com/carterperez-dev/jobboard/internal/config"
	"github.com/carterperez-dev/jobboard/internal/core"
)

const (
	customURLAttempts = 3
	emailUniqueIndex  = "users_email_key"
)

// errEmailTaken matches both auth.ErrEmailExists and core.ErrDuplicateKey.
var errEmailTaken = fmt.Errorf("%w: %w", auth.ErrEmailExists, core.ErrDuplicateKey)

type Service struct {
	repo   Repository
	resume config.ResumeConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewService(
	repo Repository,
	resumeCfg config.ResumeConfig,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		repo:   repo,
		resume: resumeCfg,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Create registers a new account. The email pre-check and the unique index
// both surface as core.ErrDuplicateKey.
func (s *Service) Create(
	ctx context.Context,
	nu auth.NewUser,
) (*auth.UserInfo, error) {
	if !IsValidRole(nu.Role) {
		return nil, fmt.Errorf(
			"create user: invalid role %q: %w",
			nu.Role,
			core.ErrInvalidInput,
		)
	}

	email := normalizeEmail(nu.Email)

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("create user: %w", errEmailTaken)
	}

	customURL, err := s.uniqueCustomURL(ctx, nu.FirstName, nu.LastName)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: nu.PasswordHash,
		FirstName:    strings.TrimSpace(nu.FirstName),
		LastName:     strings.TrimSpace(nu.LastName),
		Role:         nu.Role,
		CustomURL:    customURL,
	}
	user.IsProfileComplete = ComputeProfileComplete(user)

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) uniqueCustomURL(
	ctx context.Context,
	firstName, lastName string,
) (string, error) {
	candidate := baseSlug(firstName, lastName, s.now())

	for range customURLAttempts {
		exists, err := s.repo.ExistsByCustomURL(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = withRandomSuffix(baseSlug(firstName, lastName, s.now()))
	}

	s.logger.WarnContext(ctx, "custom url attempts exhausted",
		"attempts", customURLAttempts,
	)
	return "", core.ConflictError("could not allocate a profile URL, please try again")
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) UpdateLastLogin(ctx context.Context, userID string) error {
	return s.repo.UpdateLastLogin(ctx, userID)
}

func (s *Service) SetRefreshTokenHash(
	ctx context.Context,
	userID string,
	hash *string,
) error {
	return s.repo.SetRefreshTokenHash(ctx, userID, hash)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get profile: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile applies the provided fields, recomputes completeness and
// writes both in a single update. Email and custom URL must not belong to a
// different user.
func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update profile: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.applyProfile(ctx, user, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) applyProfile(
	ctx context.Context,
	user *User,
	req UpdateProfileRequest,
) error {
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			if err := s.ensureFree(ctx, user.ID, "email", func() (*User, error) {
				return s.repo.GetByEmail(ctx, email)
			}); err != nil {
				return err
			}
			user.Email = email
		}
	}

	if req.CustomURL != nil {
		customURL := strings.ToLower(strings.TrimSpace(*req.CustomURL))
		if customURL != user.CustomURL {
			if err := s.ensureFree(ctx, user.ID, "customUrl", func() (*User, error) {
				return s.repo.GetByCustomURL(ctx, customURL)
			}); err != nil {
				return err
			}
			user.CustomURL = customURL
		}
	}

	setString(&user.FirstName, req.FirstName)
	setString(&user.LastName, req.LastName)
	setString(&user.Bio, req.Bio)
	setString(&user.Location, req.Location)
	setString(&user.Phone, req.Phone)
	setString(&user.AvatarURL, req.AvatarURL)
	setString(&user.LinkedIn, req.LinkedIn)
	setString(&user.GitHub, req.GitHub)
	setString(&user.Website, req.Website)
	setString(&user.ExperienceLevel, req.ExperienceLevel)
	setString(&user.CurrentCompany, req.CurrentCompany)
	setString(&user.CurrentPosition, req.CurrentPosition)
	setString(&user.Company, req.Company)
	setString(&user.Industry, req.Industry)
	setString(&user.JobTitle, req.JobTitle)

	if req.Skills != nil {
		user.Skills = cleanList(*req.Skills)
	}
	if req.Education != nil {
		user.Education = cleanList(*req.Education)
	}
	if req.Certifications != nil {
		user.Certifications = cleanList(*req.Certifications)
	}
	if req.YearsOfExperience != nil {
		years := *req.YearsOfExperience
		user.YearsOfExperience = &years
	}

	user.IsProfileComplete = ComputeProfileComplete(user)
	return nil
}

func (s *Service) ensureFree(
	ctx context.Context,
	userID, field string,
	lookup func() (*User, error),
) error {
	other, err := lookup()
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != userID {
		return core.DuplicateError(field)
	}
	return nil
}

// GetPublicProfile resolves a custom URL and counts the view.
func (s *Service) GetPublicProfile(
	ctx context.Context,
	customURL string,
) (*User, error) {
	user, err := s.repo.GetByCustomURL(ctx, strings.ToLower(customURL))
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementProfileViews(ctx, user.ID); err != nil {
		s.logger.WarnContext(ctx, "increment profile views failed",
			"user_id", user.ID,
			"error", err,
		)
		return user, nil
	}

	user.ProfileViews++
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateUser(
	ctx context.Context,
	id string,
	req AdminUpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if !IsValidRole(*req.Role) {
			return nil, fmt.Errorf(
				"update user: invalid role %q: %w",
				*req.Role,
				core.ErrInvalidInput,
			)
		}
		user.Role = *req.Role
	}

	if err := s.applyProfile(ctx, user, req.UpdateProfileRequest); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

// CanDeleteUser allows admins to delete anyone but another admin.
func (s *Service) CanDeleteUser(
	ctx context.Context,
	requesterID, targetID string,
) error {
	requester, err := s.repo.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}

	if !requester.IsAdmin() {
		return fmt.Errorf("delete user: %w", core.ErrForbidden)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete admin users: %w", core.ErrForbidden)
	}

	return nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	if params.Role != "" && !IsValidRole(params.Role) {
		return nil, 0, fmt.Errorf(
			"list users: invalid role %q: %w",
			params.Role,
			core.ErrInvalidInput,
		)
	}

	return s.repo.List(ctx, params)
}

func (s *Service) CountByRole(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByRole(ctx)
}

func (s *Service) AddResume(
	ctx context.Context,
	userID string,
	req AddResumeRequest,
) (*Resume, error) {
	if s.resume.MaxPerUser > 0 {
		n, err := s.repo.CountResumes(ctx, userID)
		if err != nil {
			return nil, err
		}
		if n >= s.resume.MaxPerUser {
			return nil, core.BadRequestError(fmt.Sprintf(
				"resume limit of %d reached",
				s.resume.MaxPerUser,
			))
		}
	}

	now := s.now().UTC()
	resume := &Resume{
		ID:         uuid.New().String(),
		UserID:     userID,
		FileName:   req.FileName,
		FileURL:    req.FileURL,
		FileSize:   req.FileSize,
		MimeType:   req.MimeType,
		UploadedAt: now,
		ExpiresAt:  now.AddDate(0, s.resume.ExpiryMonths, 0),
	}

	if err := s.repo.AddResume(ctx, resume); err != nil {
		return nil, err
	}

	return resume, nil
}

func (s *Service) ListResumes(
	ctx context.Context,
	userID string,
) ([]Resume, error) {
	return s.repo.ListResumes(ctx, userID)
}

func (s *Service) DeleteResume(
	ctx context.Context,
	userID, resumeID string,
) error {
	return s.repo.DeleteResume(ctx, userID, resumeID)
}

func (s *Service) Now() time.Time {
	return s.now()
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:                u.ID,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		PasswordHash:      u.PasswordHash,
		Role:              u.Role,
		CustomURL:         u.CustomURL,
		IsProfileComplete: u.IsProfileComplete,
		RefreshTokenHash:  u.RefreshTokenHash,
		CreatedAt:         u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
