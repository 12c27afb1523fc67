package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/abdurrasheedfalalu/microblog/internal/models"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create creates a new post in the database.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a single post with its author.
func (r *GORMPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post by ID %d: %w", id, err)
	}
	return &post, nil
}

// FollowedPosts returns one page of the feed for the given user: their own
// posts unioned with posts by everyone they follow. It is a single query so
// that ordering and page boundaries stay consistent as the follow set grows,
// rather than merging per-author streams in application code.
func (r *GORMPostRepository) FollowedPosts(userID uint, page, pageSize int) (*models.PagedResult[models.Post], error) {
	followed := r.db.Model(&models.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)

	var posts []models.Post
	err := r.db.Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, followed).
		Order("created_at DESC, id DESC").
		Limit(pageSize + 1).
		Offset((page - 1) * pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query followed posts for user %d: %w", userID, err)
	}
	return paginate(posts, page, pageSize), nil
}

// AllPosts returns one page of every post on the site, newest first,
// independent of the follow graph (the global "explore" view).
func (r *GORMPostRepository) AllPosts(page, pageSize int) (*models.PagedResult[models.Post], error) {
	var posts []models.Post
	err := r.db.Preload("User").
		Order("created_at DESC, id DESC").
		Limit(pageSize + 1).
		Offset((page - 1) * pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query all posts: %w", err)
	}
	return paginate(posts, page, pageSize), nil
}

// PostsByUser returns one page of a single author's posts, newest first.
func (r *GORMPostRepository) PostsByUser(userID uint, page, pageSize int) (*models.PagedResult[models.Post], error) {
	var posts []models.Post
	err := r.db.Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(pageSize + 1).
		Offset((page - 1) * pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query posts of user %d: %w", userID, err)
	}
	return paginate(posts, page, pageSize), nil
}

// paginate folds a pageSize+1 probe result into a PagedResult. The extra row,
// if present, proves a next page exists without counting the whole table.
func paginate(posts []models.Post, page, pageSize int) *models.PagedResult[models.Post] {
	hasNext := len(posts) > pageSize
	if hasNext {
		posts = posts[:pageSize]
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return &models.PagedResult[models.Post]{
		Items:    posts,
		Page:     page,
		PageSize: pageSize,
		HasNext:  hasNext,
		HasPrev:  page > 1,
	}
}
