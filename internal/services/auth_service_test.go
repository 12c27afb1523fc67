package services_test

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/abdurrasheedfalalu/microblog/internal/models"
	"github.com/abdurrasheedfalalu/microblog/internal/repositories"
	"github.com/abdurrasheedfalalu/microblog/internal/services"
	"github.com/abdurrasheedfalalu/microblog/pkg/rabbitmq"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordHash(id uint, hash string) error {
	args := m.Called(id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) TouchLastSeen(id uint, when time.Time) error {
	args := m.Called(id, when)
	return args.Error(0)
}

func (m *MockUserRepository) Follow(followerID, followedID uint) error {
	args := m.Called(followerID, followedID)
	return args.Error(0)
}

func (m *MockUserRepository) Unfollow(followerID, followedID uint) error {
	args := m.Called(followerID, followedID)
	return args.Error(0)
}

func (m *MockUserRepository) IsFollowing(followerID, followedID uint) (bool, error) {
	args := m.Called(followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FollowerCount(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FollowingCount(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailPublisher captures email events instead of talking to RabbitMQ.
type MockEmailPublisher struct {
	mock.Mock
}

func (m *MockEmailPublisher) PublishEmailEvent(event rabbitmq.EmailEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

const testJWTSecret = "test_jwt_secret"

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, nil, testJWTSecret, time.Hour)

	// Test successful registration
	mockRepo.On("GetByUsername", "testuser").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("GetByEmail", "test@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.RegisterUser("testuser", "test@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "testuser", user.Username)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password123", user.PasswordHash)
	mockRepo.AssertExpectations(t)

	// Test username already taken
	mockRepo.On("GetByUsername", "testuser").Return(&models.User{ID: 1}, nil).Once()
	_, err = authService.RegisterUser("testuser", "test@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByUsername", "testuser").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("GetByEmail", "test@example.com").Return(&models.User{ID: 1}, nil).Once()
	_, err = authService.RegisterUser("testuser", "test@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)

	// Test losing the race: pre-checks pass but the store rejects the insert
	mockRepo.On("GetByUsername", "testuser").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("GetByEmail", "test@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(repositories.ErrDuplicate).Once()
	mockRepo.On("GetByUsername", "testuser").Return(&models.User{ID: 2}, nil).Once()
	_, err = authService.RegisterUser("testuser", "test@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, nil, testJWTSecret, time.Hour)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           7,
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: string(hashedPassword),
	}

	// Test successful login: token issued and last seen touched
	mockRepo.On("GetByUsername", "testuser").Return(user, nil).Once()
	mockRepo.On("TouchLastSeen", uint(7), mock.AnythingOfType("time.Time")).Return(nil).Once()

	token, loggedIn, err := authService.LoginUser("testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, float64(7), claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])
	mockRepo.AssertExpectations(t)

	// Wrong password and unknown user must be indistinguishable
	mockRepo.On("GetByUsername", "testuser").Return(user, nil).Once()
	_, _, wrongPassErr := authService.LoginUser("testuser", "wrongpassword")
	assert.ErrorIs(t, wrongPassErr, services.ErrInvalidCredentials)

	mockRepo.On("GetByUsername", "nobody").Return(nil, repositories.ErrNotFound).Once()
	_, _, unknownErr := authService.LoginUser("nobody", "password123")
	assert.ErrorIs(t, unknownErr, services.ErrInvalidCredentials)
	assert.Equal(t, wrongPassErr, unknownErr)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_SetAndCheckPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, nil, testJWTSecret, time.Hour)

	// A user without a hash never verifies
	user := &models.User{Username: "testuser"}
	assert.False(t, authService.CheckPassword(user, "anything"))
	assert.False(t, authService.CheckPassword(nil, "anything"))

	// Only the most recently set password verifies
	assert.NoError(t, authService.SetPassword(user, "first-password"))
	assert.True(t, authService.CheckPassword(user, "first-password"))
	assert.False(t, authService.CheckPassword(user, "second-password"))

	assert.NoError(t, authService.SetPassword(user, "second-password"))
	assert.True(t, authService.CheckPassword(user, "second-password"))
	assert.False(t, authService.CheckPassword(user, "first-password"))

	// A persisted user gets the new hash written through to the store
	stored := &models.User{ID: 3, Username: "stored"}
	mockRepo.On("UpdatePasswordHash", uint(3), mock.AnythingOfType("string")).Return(nil).Once()
	assert.NoError(t, authService.SetPassword(stored, "newpassword"))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_PasswordResetToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, nil, testJWTSecret, time.Hour)

	user := &models.User{ID: 42, Username: "testuser", Email: "test@example.com"}

	// A fresh token verifies back to the user it was issued for
	token, err := authService.IssuePasswordResetToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	mockRepo.On("GetByID", uint(42)).Return(user, nil).Once()
	verified, err := authService.VerifyPasswordResetToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
	mockRepo.AssertExpectations(t)

	// Altering any character of the token breaks the signature
	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}
	_, err = authService.VerifyPasswordResetToken(string(tampered))
	assert.ErrorIs(t, err, services.ErrInvalidResetToken)

	// Garbage never panics, only fails
	_, err = authService.VerifyPasswordResetToken("not.a.token")
	assert.ErrorIs(t, err, services.ErrInvalidResetToken)
	_, err = authService.VerifyPasswordResetToken("")
	assert.ErrorIs(t, err, services.ErrInvalidResetToken)

	// An expired token fails verification
	expiredService := services.NewAuthService(mockRepo, nil, testJWTSecret, -time.Minute)
	expiredToken, err := expiredService.IssuePasswordResetToken(user)
	assert.NoError(t, err)
	_, err = expiredService.VerifyPasswordResetToken(expiredToken)
	assert.ErrorIs(t, err, services.ErrInvalidResetToken)

	// A session token is not a reset token, and vice versa
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	sessionUser := &models.User{ID: 42, Username: "testuser", PasswordHash: string(hashedPassword)}
	mockRepo.On("GetByUsername", "testuser").Return(sessionUser, nil).Once()
	mockRepo.On("TouchLastSeen", uint(42), mock.AnythingOfType("time.Time")).Return(nil).Once()
	sessionToken, _, err := authService.LoginUser("testuser", "password123")
	assert.NoError(t, err)
	_, err = authService.VerifyPasswordResetToken(sessionToken)
	assert.ErrorIs(t, err, services.ErrInvalidResetToken)
	_, err = authService.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMailer := new(MockEmailPublisher)
	authService := services.NewAuthService(mockRepo, mockMailer, testJWTSecret, time.Hour)

	user := &models.User{ID: 9, Username: "testuser", Email: "test@example.com"}

	// Known email publishes a password_reset event carrying a valid token
	mockRepo.On("GetByEmail", "test@example.com").Return(user, nil).Once()
	var published rabbitmq.EmailEvent
	mockMailer.On("PublishEmailEvent", mock.AnythingOfType("rabbitmq.EmailEvent")).
		Run(func(args mock.Arguments) {
			published = args.Get(0).(rabbitmq.EmailEvent)
		}).Return(nil).Once()

	assert.NoError(t, authService.RequestPasswordReset("test@example.com"))
	assert.Equal(t, "password_reset", published.Type)
	assert.Equal(t, "test@example.com", published.To)
	assert.NotEmpty(t, published.Token)

	mockRepo.On("GetByID", uint(9)).Return(user, nil).Once()
	verified, err := authService.VerifyPasswordResetToken(published.Token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
	mockRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)

	// Unknown email succeeds silently and publishes nothing
	mockRepo.On("GetByEmail", "ghost@example.com").Return(nil, repositories.ErrNotFound).Once()
	assert.NoError(t, authService.RequestPasswordReset("ghost@example.com"))
	mockMailer.AssertNumberOfCalls(t, "PublishEmailEvent", 1)
}

func TestAuthService_ResetPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, nil, testJWTSecret, time.Hour)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	user := &models.User{ID: 5, Username: "testuser", PasswordHash: string(hashedPassword)}

	token, err := authService.IssuePasswordResetToken(user)
	assert.NoError(t, err)

	mockRepo.On("GetByID", uint(5)).Return(user, nil).Once()
	mockRepo.On("UpdatePasswordHash", uint(5), mock.AnythingOfType("string")).Return(nil).Once()

	assert.NoError(t, authService.ResetPassword(token, "newpassword"))
	assert.True(t, authService.CheckPassword(user, "newpassword"))
	assert.False(t, authService.CheckPassword(user, "oldpassword"))
	mockRepo.AssertExpectations(t)

	// An invalid token changes nothing
	err = authService.ResetPassword("bogus", "newpassword")
	assert.ErrorIs(t, err, services.ErrInvalidResetToken)
}
