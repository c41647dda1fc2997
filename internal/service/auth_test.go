package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rtvk-001/FilmHive/internal/config"
	"github.com/Rtvk-001/FilmHive/internal/model"
)

type mockRefreshTokenRepository struct {
	findByTokenHashFn func(ctx context.Context, tokenHash string) (*model.RefreshToken, error)

	created         []*model.RefreshToken
	revoked         []string
	revokedAllUsers []int64
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	token.ID = "token-" + time.Now().Format("150405.000000000")
	m.created = append(m.created, token)
	return nil
}

func (m *mockRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	if m.findByTokenHashFn != nil {
		return m.findByTokenHashFn(ctx, tokenHash)
	}
	// Default: resolve tokens this mock has created.
	for _, t := range m.created {
		if t.TokenHash == tokenHash {
			return t, nil
		}
	}
	return nil, model.ErrRefreshTokenNotFound
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, id string, replacedBy *string) error {
	m.revoked = append(m.revoked, id)
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	m.revokedAllUsers = append(m.revokedAllUsers, userID)
	return nil
}

func (m *mockRefreshTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		AccessTokenMaxAge:  900,
		RefreshTokenMaxAge: 2592000,
	}
}

func TestAuthService_GenerateTokenPair(t *testing.T) {
	repo := &mockRefreshTokenRepository{}
	svc := NewAuthService(repo, testAuthConfig())

	pair, err := svc.GenerateTokenPair(context.Background(), 1, "test-agent", "10.0.0.1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token in pair")
	}
	if len(repo.created) != 1 {
		t.Fatalf("stored tokens = %d, want 1", len(repo.created))
	}
	// Only the hash hits the database.
	if repo.created[0].TokenHash == pair.RefreshToken {
		t.Error("refresh token stored unhashed")
	}
}

func TestAuthService_RefreshTokens_RotatesAndRevokesOld(t *testing.T) {
	repo := &mockRefreshTokenRepository{}
	svc := NewAuthService(repo, testAuthConfig())

	pair, err := svc.GenerateTokenPair(context.Background(), 1, "", "")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	oldID := repo.created[0].ID

	newPair, userID, err := svc.RefreshTokens(context.Background(), pair.RefreshToken, "", "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if userID != 1 {
		t.Errorf("user id = %d, want 1", userID)
	}
	if newPair.RefreshToken == pair.RefreshToken {
		t.Error("refresh token not rotated")
	}
	if len(repo.revoked) != 1 || repo.revoked[0] != oldID {
		t.Errorf("revoked = %v, want [%s]", repo.revoked, oldID)
	}
}

func TestAuthService_RefreshTokens_ReuseRevokesFamily(t *testing.T) {
	now := time.Now()
	repo := &mockRefreshTokenRepository{
		findByTokenHashFn: func(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
			return &model.RefreshToken{
				ID:        "stolen",
				UserID:    7,
				TokenHash: tokenHash,
				RevokedAt: &now,
				ExpiresAt: now.Add(time.Hour),
			}, nil
		},
	}
	svc := NewAuthService(repo, testAuthConfig())

	_, _, err := svc.RefreshTokens(context.Background(), "leaked-token", "", "")
	if !errors.Is(err, model.ErrRefreshTokenReused) {
		t.Fatalf("error = %v, want ErrRefreshTokenReused", err)
	}
	if len(repo.revokedAllUsers) != 1 || repo.revokedAllUsers[0] != 7 {
		t.Errorf("family revocations = %v, want [7]", repo.revokedAllUsers)
	}
}

func TestAuthService_RefreshTokens_Expired(t *testing.T) {
	repo := &mockRefreshTokenRepository{
		findByTokenHashFn: func(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
			return &model.RefreshToken{
				ID:        "old",
				UserID:    1,
				TokenHash: tokenHash,
				ExpiresAt: time.Now().Add(-time.Minute),
			}, nil
		},
	}
	svc := NewAuthService(repo, testAuthConfig())

	_, _, err := svc.RefreshTokens(context.Background(), "expired-token", "", "")
	if !errors.Is(err, model.ErrRefreshTokenExpired) {
		t.Fatalf("error = %v, want ErrRefreshTokenExpired", err)
	}
}
