package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Rtvk-001/FilmHive/internal/model"
	"github.com/Rtvk-001/FilmHive/internal/repository"
)

// UserService handles account lifecycle and profile assembly.
type UserService struct {
	repo         repository.UserRepository
	followRepo   repository.FollowRepository
	watchRepo    repository.WatchRepository
	activityRepo repository.ActivityRepository
}

func NewUserService(
	repo repository.UserRepository,
	followRepo repository.FollowRepository,
	watchRepo repository.WatchRepository,
	activityRepo repository.ActivityRepository,
) *UserService {
	return &UserService{
		repo:         repo,
		followRepo:   followRepo,
		watchRepo:    watchRepo,
		activityRepo: activityRepo,
	}
}

// ProfileActivityLimit caps the recent activity slice embedded in a profile.
const ProfileActivityLimit = 20

// Register creates a new user account with optional avatar metadata.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, fmt.Errorf("username is required")
	}
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	// Uniqueness is case-insensitive; both checks race with concurrent
	// registrations, so the unique indexes remain the last word.
	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	exists, err = s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHashed: string(hashedPassword),
		ProfilePicture: req.ProfilePicture,
		AvatarKey:      req.AvatarKey,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user with username and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		// Don't reveal whether the username exists.
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProfile assembles the full profile view: the user record, their lists,
// both sides of the follow graph, and recent activity. The user lookup runs
// first so a missing user fails fast before any list queries.
func (s *UserService) GetProfile(ctx context.Context, userID int64, viewerID *int64) (*model.Profile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{User: user}

	if profile.Watchlist, err = s.watchRepo.ListWatchlist(ctx, userID); err != nil {
		return nil, err
	}
	if profile.WatchedMovies, err = s.watchRepo.ListWatchedMovies(ctx, userID); err != nil {
		return nil, err
	}
	if profile.WatchedTV, err = s.watchRepo.ListWatchedTV(ctx, userID); err != nil {
		return nil, err
	}
	if profile.Following, err = s.followRepo.ListFollowing(ctx, userID); err != nil {
		return nil, err
	}
	if profile.Followers, err = s.followRepo.ListFollowers(ctx, userID); err != nil {
		return nil, err
	}
	if profile.RecentActivity, err = s.activityRepo.ListByUser(ctx, userID, ProfileActivityLimit); err != nil {
		return nil, err
	}

	// The follow-status check degrades quietly; a profile is still useful
	// without it.
	if viewerID != nil && *viewerID != userID {
		isFollowing, err := s.followRepo.Exists(ctx, *viewerID, strconv.FormatInt(userID, 10))
		if err == nil {
			profile.IsFollowing = isFollowing
		}
	}

	return profile, nil
}

// Search finds users by username fragment.
func (s *UserService) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	return s.repo.Search(ctx, query, limit)
}
