package repositories

import (
	"time"

	"github.com/abdurrasheedfalalu/microblog/internal/models"
)

// UserRepository defines the interface for user data access, including the
// follow graph kept in the follows edge table.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdatePasswordHash(id uint, hash string) error
	TouchLastSeen(id uint, when time.Time) error

	Follow(followerID, followedID uint) error
	Unfollow(followerID, followedID uint) error
	IsFollowing(followerID, followedID uint) (bool, error)
	FollowerCount(userID uint) (int64, error)
	FollowingCount(userID uint) (int64, error)
}
