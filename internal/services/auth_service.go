package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/abdurrasheedfalalu/microblog/internal/models"
	"github.com/abdurrasheedfalalu/microblog/internal/repositories"
	"github.com/abdurrasheedfalalu/microblog/pkg/rabbitmq"
)

// resetClaim is the claim key carrying the user ID in a password-reset
// token. Session tokens never carry it, so a session token can never be
// replayed as a reset token.
const resetClaim = "reset_password"

// EmailPublisher hands email events to the out-of-process mailer. Delivery
// is best-effort from the core's point of view: issuing the token and
// sending the mail are separable steps.
type EmailPublisher interface {
	PublishEmailEvent(event rabbitmq.EmailEvent) error
}

// AuthService handles business logic for registration, authentication, and
// password resets.
type AuthService struct {
	userRepo   repositories.UserRepository
	mailer     EmailPublisher
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which a session JWT is valid
	resetTTL   time.Duration // Duration for which a reset token is valid
}

// NewAuthService creates a new AuthService. The secret must be non-empty;
// main fails at startup otherwise so tokens can never be signed with an
// empty key. mailer may be nil, in which case reset emails are skipped.
func NewAuthService(userRepo repositories.UserRepository, mailer EmailPublisher, jwtSecret string, resetTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		mailer:     mailer,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Session token valid for 24 hours
		resetTTL:   resetTTL,
	}
}

// RegisterUser registers a new user, hashes their password, and saves them
// to the database. The uniqueness pre-checks give friendly errors; the
// database constraint remains the authority under concurrent registration.
func (s *AuthService) RegisterUser(username, email, password string) (*models.User, error) {
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	}
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Username: username,
		Email:    email,
		LastSeen: time.Now().UTC(),
	}
	if err := s.SetPassword(user, password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// Lost a race with a concurrent registration; report whichever
			// field collides now.
			if _, lookupErr := s.userRepo.GetByUsername(username); lookupErr == nil {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// LoginUser authenticates a user and returns a session JWT if successful.
// The error is the same for an unknown username and a wrong password.
func (s *AuthService) LoginUser(username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !s.CheckPassword(user, password) {
		return "", nil, ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastSeen(user.ID, time.Now().UTC()); err != nil {
		log.Printf("Failed to update last seen for user %d: %v", user.ID, err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, user, nil
}

// SetPassword derives a salted bcrypt hash from the plaintext and stores it
// on the user. The plaintext itself is never stored or logged. For a user
// that already has an ID the stored row is updated too.
func (s *AuthService) SetPassword(user *models.User, plaintext string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)

	if user.ID != 0 {
		if err := s.userRepo.UpdatePasswordHash(user.ID, user.PasswordHash); err != nil {
			return fmt.Errorf("failed to store password hash: %w", err)
		}
	}
	return nil
}

// CheckPassword verifies the plaintext against the stored hash. It returns
// false, never an error, for any mismatch, including a missing hash.
func (s *AuthService) CheckPassword(user *models.User, plaintext string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)) == nil
}

// IssuePasswordResetToken produces an opaque signed token encoding the
// user's ID and an expiry. Each token carries a unique jti so individual
// tokens are distinguishable in logs and on the wire.
func (s *AuthService) IssuePasswordResetToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		resetClaim: user.ID,
		"exp":      time.Now().Add(s.resetTTL).Unix(),
		"iat":      time.Now().Unix(),
		"jti":      uuid.New().String(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return tokenString, nil
}

// RequestPasswordReset issues a reset token for the account behind the email
// and publishes an email event for the mailer. An unknown email succeeds
// silently so the endpoint cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		log.Printf("Password reset requested for unknown email")
		return nil
	}

	token, err := s.IssuePasswordResetToken(user)
	if err != nil {
		return err
	}

	if s.mailer != nil {
		event := rabbitmq.EmailEvent{
			Type:     "password_reset",
			To:       user.Email,
			Username: user.Username,
			Token:    token,
		}
		if err := s.mailer.PublishEmailEvent(event); err != nil {
			log.Printf("Warning: Failed to publish password reset email for user %d: %v", user.ID, err)
		}
	} else {
		log.Println("Mailer is not configured. Skipping password reset email.")
	}
	return nil
}

// VerifyPasswordResetToken decodes and verifies a reset token and returns
// the user it was issued for. Any malformed, tampered, expired, or
// wrong-purpose token yields ErrInvalidResetToken; attacker-controlled
// input never causes a panic.
func (s *AuthService) VerifyPasswordResetToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidResetToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidResetToken
	}
	rawID, ok := claims[resetClaim].(float64)
	if !ok || rawID <= 0 {
		return nil, ErrInvalidResetToken
	}

	user, err := s.userRepo.GetByID(uint(rawID))
	if err != nil {
		return nil, ErrInvalidResetToken
	}
	return user, nil
}

// ResetPassword verifies a reset token and replaces the password of the
// user it names.
func (s *AuthService) ResetPassword(tokenString, newPassword string) error {
	user, err := s.VerifyPasswordResetToken(tokenString)
	if err != nil {
		return err
	}
	return s.SetPassword(user, newPassword)
}

// ValidateToken parses and validates a session JWT, returning the claims if
// valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		// A reset token must never pass as a session token.
		if _, isReset := claims[resetClaim]; isReset {
			return nil, fmt.Errorf("invalid token")
		}
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
