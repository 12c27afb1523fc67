package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/abdurrasheedfalalu/microblog/internal/models"
	"github.com/abdurrasheedfalalu/microblog/internal/repositories"
)

// Profile bundles a user with their follow-graph counts for the profile view.
type Profile struct {
	User           *models.User `json:"user"`
	FollowerCount  int64        `json:"follower_count"`
	FollowingCount int64        `json:"following_count"`
}

// UserService handles business logic for profiles and the follow graph.
// Every operation takes the acting user explicitly; there is no ambient
// "current user" state in this layer.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetUser loads a user by ID, mapping a missing row to ErrUserNotFound.
func (s *UserService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return user, nil
}

// GetProfile looks up a user by username together with their follower and
// following counts.
func (s *UserService) GetProfile(username string) (*Profile, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load profile for %s: %w", username, err)
	}

	followers, err := s.userRepo.FollowerCount(user.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.userRepo.FollowingCount(user.ID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:           user,
		FollowerCount:  followers,
		FollowingCount: following,
	}, nil
}

// UpdateProfile applies a username and/or about-me change for the acting
// user. A username collision is reported as ErrUsernameTaken.
func (s *UserService) UpdateProfile(actor *models.User, username, aboutMe string) (*models.User, error) {
	if username != "" && username != actor.Username {
		if _, err := s.userRepo.GetByUsername(username); err == nil {
			return nil, ErrUsernameTaken
		}
		actor.Username = username
	}
	actor.AboutMe = aboutMe

	if err := s.userRepo.Update(actor); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return actor, nil
}

// TouchLastSeen records request activity for the user. Called by the session
// middleware on every authenticated request.
func (s *UserService) TouchLastSeen(userID uint) error {
	return s.userRepo.TouchLastSeen(userID, time.Now().UTC())
}

// Follow adds the edge actor -> target. Following yourself is rejected as a
// validation error; following someone you already follow is a silent no-op.
func (s *UserService) Follow(actor *models.User, targetUsername string) error {
	target, err := s.resolveTarget(actor, targetUsername)
	if err != nil {
		return err
	}
	return s.userRepo.Follow(actor.ID, target.ID)
}

// Unfollow removes the edge actor -> target with the same guards as Follow.
// Unfollowing someone you don't follow is a silent no-op.
func (s *UserService) Unfollow(actor *models.User, targetUsername string) error {
	target, err := s.resolveTarget(actor, targetUsername)
	if err != nil {
		return err
	}
	return s.userRepo.Unfollow(actor.ID, target.ID)
}

// IsFollowing reports whether the actor follows the named user.
func (s *UserService) IsFollowing(actor *models.User, targetUsername string) (bool, error) {
	target, err := s.userRepo.GetByUsername(targetUsername)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return s.userRepo.IsFollowing(actor.ID, target.ID)
}

// resolveTarget loads the followed/unfollowed user and rejects self-edges.
func (s *UserService) resolveTarget(actor *models.User, targetUsername string) (*models.User, error) {
	target, err := s.userRepo.GetByUsername(targetUsername)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user %s: %w", targetUsername, err)
	}
	if target.ID == actor.ID {
		return nil, ErrSelfFollow
	}
	return target, nil
}
