package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abdurrasheedfalalu/microblog/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database. A username or email collision
// is reported as ErrDuplicate, whichever writer the database rejected.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// Update persists profile changes (username, about-me) for an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"username": user.Username,
		"about_me": user.AboutMe,
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update user %d: %w", user.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePasswordHash replaces the stored credential hash for a user.
func (r *GORMUserRepository) UpdatePasswordHash(id uint, hash string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password hash for user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastSeen records when the user was last active.
func (r *GORMUserRepository) TouchLastSeen(id uint, when time.Time) error {
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Update("last_seen", when).Error; err != nil {
		return fmt.Errorf("failed to touch last seen for user %d: %w", id, err)
	}
	return nil
}

// Follow adds the edge (follower -> followed). The edge table's composite
// unique index plus ON CONFLICT DO NOTHING makes the call idempotent: a
// duplicate edge, including one from a concurrent request, is silently
// suppressed by the database.
func (r *GORMUserRepository) Follow(followerID, followedID uint) error {
	edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
	if err != nil {
		// Some drivers report the conflict instead of swallowing it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to create follow edge %d -> %d: %w", followerID, followedID, err)
	}
	return nil
}

// Unfollow removes the edge (follower -> followed). Removing an absent edge
// is a no-op, not an error.
func (r *GORMUserRepository) Unfollow(followerID, followedID uint) error {
	err := r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete follow edge %d -> %d: %w", followerID, followedID, err)
	}
	return nil
}

// IsFollowing reports whether the edge (follower -> followed) exists.
func (r *GORMUserRepository) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge %d -> %d: %w", followerID, followedID, err)
	}
	return count > 0, nil
}

// FollowerCount returns how many users follow the given user.
func (r *GORMUserRepository) FollowerCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count followers of user %d: %w", userID, err)
	}
	return count, nil
}

// FollowingCount returns how many users the given user follows.
func (r *GORMUserRepository) FollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users followed by user %d: %w", userID, err)
	}
	return count, nil
}
