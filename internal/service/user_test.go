package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Rtvk-001/FilmHive/internal/model"
)

func newUserServiceForTest(userRepo *mockUserRepository, followRepo *mockFollowRepository, watchRepo *mockWatchRepository, activityRepo *mockActivityRepository) *UserService {
	return NewUserService(userRepo, followRepo, watchRepo, activityRepo)
}

func TestUserService_Register(t *testing.T) {
	userRepo := &mockUserRepository{}
	svc := newUserServiceForTest(userRepo, &mockFollowRepository{}, &mockWatchRepository{}, &mockActivityRepository{})

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("username = %q, want %q", user.Username, "alice")
	}
	if user.PasswordHashed == "supersecret" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte("supersecret")); err != nil {
		t.Error("stored hash does not verify against the password")
	}
	if len(userRepo.createCalls) != 1 {
		t.Errorf("create calls = %d, want 1", len(userRepo.createCalls))
	}
}

func TestUserService_Register_UsernameTaken(t *testing.T) {
	userRepo := &mockUserRepository{
		existsByUsernameFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := newUserServiceForTest(userRepo, &mockFollowRepository{}, &mockWatchRepository{}, &mockActivityRepository{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	if !errors.Is(err, model.ErrUsernameExists) {
		t.Fatalf("error = %v, want ErrUsernameExists", err)
	}
	if len(userRepo.createCalls) != 0 {
		t.Error("user created despite taken username")
	}
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	userRepo := &mockUserRepository{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := newUserServiceForTest(userRepo, &mockFollowRepository{}, &mockWatchRepository{}, &mockActivityRepository{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	if !errors.Is(err, model.ErrEmailExists) {
		t.Fatalf("error = %v, want ErrEmailExists", err)
	}
}

func TestUserService_Register_ShortPassword(t *testing.T) {
	svc := newUserServiceForTest(&mockUserRepository{}, &mockFollowRepository{}, &mockWatchRepository{}, &mockActivityRepository{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "short",
	})
	if err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.DefaultCost)
	userRepo := &mockUserRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 1, Username: "alice", PasswordHashed: string(hash)}, nil
		},
	}
	svc := newUserServiceForTest(userRepo, &mockFollowRepository{}, &mockWatchRepository{}, &mockActivityRepository{})

	_, err := svc.Login(context.Background(), &model.LoginRequest{Username: "alice", Password: "wrongpassword"})
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserService_Login_UnknownUserSameError(t *testing.T) {
	svc := newUserServiceForTest(&mockUserRepository{}, &mockFollowRepository{}, &mockWatchRepository{}, &mockActivityRepository{})

	// Unknown username must be indistinguishable from a wrong password.
	_, err := svc.Login(context.Background(), &model.LoginRequest{Username: "ghost", Password: "whatever"})
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserService_GetProfile(t *testing.T) {
	userRepo := &mockUserRepository{getByIDFn: existingUser(2, "bob")}
	followRepo := &mockFollowRepository{
		existsFn: func(ctx context.Context, followerID int64, targetID string) (bool, error) {
			return followerID == 1 && targetID == "2", nil
		},
		listFollowingFn: func(ctx context.Context, followerID int64) ([]model.FollowingEntry, error) {
			return []model.FollowingEntry{{TargetID: "3", TargetKind: model.TargetKindUser}}, nil
		},
	}
	watchRepo := &mockWatchRepository{
		listWatchlistFn: func(ctx context.Context, userID int64) ([]model.WatchlistItem, error) {
			return []model.WatchlistItem{{CatalogID: "movie:603", Title: "The Matrix"}}, nil
		},
	}
	svc := newUserServiceForTest(userRepo, followRepo, watchRepo, &mockActivityRepository{})

	viewerID := int64(1)
	profile, err := svc.GetProfile(context.Background(), 2, &viewerID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if profile.User.ID != 2 {
		t.Errorf("profile user id = %d, want 2", profile.User.ID)
	}
	if len(profile.Watchlist) != 1 || len(profile.Following) != 1 {
		t.Error("profile lists not assembled")
	}
	if !profile.IsFollowing {
		t.Error("expected IsFollowing for viewer 1")
	}
}

func TestUserService_GetProfile_SelfSkipsFollowCheck(t *testing.T) {
	userRepo := &mockUserRepository{getByIDFn: existingUser(1, "alice")}
	followRepo := &mockFollowRepository{
		existsFn: func(ctx context.Context, followerID int64, targetID string) (bool, error) {
			t.Error("follow check performed for own profile")
			return false, nil
		},
	}
	svc := newUserServiceForTest(userRepo, followRepo, &mockWatchRepository{}, &mockActivityRepository{})

	viewerID := int64(1)
	profile, err := svc.GetProfile(context.Background(), 1, &viewerID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if profile.IsFollowing {
		t.Error("IsFollowing set on own profile")
	}
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	svc := newUserServiceForTest(&mockUserRepository{}, &mockFollowRepository{}, &mockWatchRepository{}, &mockActivityRepository{})

	_, err := svc.GetProfile(context.Background(), 99, nil)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
}
