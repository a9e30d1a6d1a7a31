package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/citlabs/labsched-backend/internal/config"
	"github.com/citlabs/labsched-backend/internal/model"
	"github.com/citlabs/labsched-backend/internal/repository"
)

// Common auth errors.
var (
	// ErrInvalidCredentials covers both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionInvalidated means the token's session was replaced by a
	// newer login or cleared by a logout.
	ErrSessionInvalidated = errors.New("session invalidated")
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	AdminID int    `json:"admin_id"`
	Email   string `json:"email"`
}

// AuthService handles admin authentication, JWT issuance, and session
// tracking. One session per admin: each login stores its token's JTI in
// Redis, so any previously issued token stops validating.
type AuthService struct {
	cfg       *config.Config
	adminRepo *repository.AdminRepository
	rdb       *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, adminRepo *repository.AdminRepository, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, adminRepo: adminRepo, rdb: rdb}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// Login verifies the credentials and returns a signed admin JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.Admin, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	jti := uuid.New().String()
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(admin.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		AdminID: admin.ID,
		Email:   admin.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	// Register the session with the same expiry as the JWT. A new login
	// replaces the previous session rather than being rejected: the tool
	// has a handful of admins and no out-of-band reset path, so locking
	// an admin out until the old token expires is worse than cutting off
	// the stale device.
	sessionKey := config.CacheKey.AdminSessionKey(admin.ID)
	if err := s.rdb.Set(ctx, sessionKey, jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	return signed, admin, nil
}

// ValidateSession checks that the token's JTI still matches the active
// session in Redis.
func (s *AuthService) ValidateSession(ctx context.Context, adminID int, jti string) error {
	sessionKey := config.CacheKey.AdminSessionKey(adminID)
	stored, err := s.rdb.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrSessionInvalidated
		}
		return fmt.Errorf("check session: %w", err)
	}
	if stored != jti {
		return ErrSessionInvalidated
	}
	return nil
}

// ResetSession removes an admin's active session from Redis. Tokens
// issued before the reset stop validating immediately.
func (s *AuthService) ResetSession(ctx context.Context, adminID int) error {
	return s.rdb.Del(ctx, config.CacheKey.AdminSessionKey(adminID)).Err()
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
