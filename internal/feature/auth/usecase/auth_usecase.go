package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"declutter_backend/internal/feature/auth/domain/entity"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// maxFailedAttempts 回連続で失敗するとアカウントをロックします。
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute

	// refreshTokenBytes は16進表現で64文字になります。
	refreshTokenBytes = 32
)

// dummyHash はユーザーが存在しない場合のタイミング攻撃緩和用です。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は正規化済みメールアドレスでユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// UpdateLockout はログイン失敗回数とロック期限を保存します。
	UpdateLockout(ctx context.Context, id string, failedCount int, lockoutEnd *time.Time) error
}

// JWTGenerator はアクセストークン生成のインターフェースを定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID string, email string) (string, error)
}

// SignupInput は新規登録に必要な値です。
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ClientInfo is recorded on each session for auditing.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// TokenPair is returned by Login and Refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime in seconds
}

// Config holds token lifetimes and the per-user session cap.
type Config struct {
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	MaxSessionsPerUser int
}

// DefaultConfig is used for zero fields of Config.
var DefaultConfig = Config{
	AccessTokenTTL:     15 * time.Minute,
	RefreshTokenTTL:    7 * 24 * time.Hour,
	MaxSessionsPerUser: 5,
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	sessions     SessionRepository
	jwtGenerator JWTGenerator
	cfg          Config
	now          func() time.Time
	newToken     func() (string, error)
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, jwtGenerator JWTGenerator, cfg Config) *authUsecase {
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = DefaultConfig.AccessTokenTTL
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = DefaultConfig.RefreshTokenTTL
	}
	if cfg.MaxSessionsPerUser <= 0 {
		cfg.MaxSessionsPerUser = DefaultConfig.MaxSessionsPerUser
	}
	return &authUsecase{
		users:        users,
		sessions:     sessions,
		jwtGenerator: jwtGenerator,
		cfg:          cfg,
		now:          time.Now,
		newToken:     newRefreshToken,
	}
}

// newRefreshToken は暗号論的乱数から64文字の16進トークンを生成します。
func newRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrWeakPassword, minPasswordLength)
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録します。
func (u *authUsecase) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	email := strings.TrimSpace(in.Email)
	user := &entity.User{
		ID:                 uuid.NewString(),
		Username:           email,
		NormalizedUsername: entity.Normalize(email),
		Email:              email,
		NormalizedEmail:    entity.Normalize(email),
		PasswordHash:       string(hashed),
		SecurityStamp:      uuid.NewString(),
		ConcurrencyStamp:   uuid.NewString(),
		LockoutEnabled:     true,
		CreatedAt:          u.now(),
		FirstName:          optional(in.FirstName),
		LastName:           optional(in.LastName),
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login はユーザーを認証し、アクセストークンとリフレッシュトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string, client ClientInfo) (*TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, entity.Normalize(email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil {
		return nil, ErrInvalidCredentials
	}

	now := u.now()
	if user.IsLockedOut(now) {
		return nil, ErrInvalidCredentials
	}

	if compareErr != nil {
		if lockErr := u.recordFailure(ctx, user, now); lockErr != nil {
			return nil, lockErr
		}
		return nil, ErrInvalidCredentials
	}

	if user.AccessFailedCount > 0 || user.LockoutEnd != nil {
		if err := u.users.UpdateLockout(ctx, user.ID, 0, nil); err != nil {
			return nil, fmt.Errorf("failed to reset lockout: %w", err)
		}
	}

	return u.issueTokens(ctx, user, client)
}

// recordFailure はログイン失敗を数え、上限に達したらロックします。
func (u *authUsecase) recordFailure(ctx context.Context, user *entity.User, now time.Time) error {
	if !user.LockoutEnabled {
		return nil
	}
	failed := user.AccessFailedCount + 1
	var lockoutEnd *time.Time
	if failed >= maxFailedAttempts {
		end := now.Add(lockoutDuration)
		lockoutEnd = &end
		failed = 0
	}
	if err := u.users.UpdateLockout(ctx, user.ID, failed, lockoutEnd); err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}
	return nil
}

// Refresh はリフレッシュトークンをローテーションし、新しいトークンペアを返します。
// 使用済みトークンは失効させるため、同じトークンは一度しか使えません。
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*TokenPair, error) {
	if len(refreshToken) != hex.EncodedLen(refreshTokenBytes) {
		return nil, ErrInvalidRefreshToken
	}

	session, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if session.IsRevoked() {
		return nil, ErrSessionRevoked
	}
	if session.IsExpiredAt(u.now()) {
		return nil, ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	if err := u.sessions.Revoke(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke session: %w", err)
	}

	return u.issueTokens(ctx, user, client)
}

// Logout はリフレッシュトークンを失効させます。未知のトークンは無視します。
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	if err := u.sessions.Revoke(ctx, refreshToken); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// Me は認証済みユーザーのプロフィールを返します。
func (u *authUsecase) Me(ctx context.Context, userID string) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

// issueTokens creates a session, evicting the oldest ones over the per-user cap.
func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User, client ClientInfo) (*TokenPair, error) {
	count, err := u.sessions.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for ; count >= int64(u.cfg.MaxSessionsPerUser); count-- {
		if err := u.sessions.DeleteOldestByUserID(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	token, err := u.newToken()
	if err != nil {
		return nil, err
	}
	now := u.now()
	session := &entity.Session{
		ID:        token,
		UserID:    user.ID,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.cfg.RefreshTokenTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	access, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: token,
		ExpiresIn:    int64(u.cfg.AccessTokenTTL / time.Second),
	}, nil
}
