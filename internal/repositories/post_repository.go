package repositories

import "github.com/abdurrasheedfalalu/microblog/internal/models"

// PostRepository defines the interface for post data access, including the
// paginated feed queries. All listing methods share one ordering contract:
// creation time descending, post ID descending as the tiebreak, 1-based
// pages, with HasNext computed without a total count.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id uint) (*models.Post, error)
	FollowedPosts(userID uint, page, pageSize int) (*models.PagedResult[models.Post], error)
	AllPosts(page, pageSize int) (*models.PagedResult[models.Post], error)
	PostsByUser(userID uint, page, pageSize int) (*models.PagedResult[models.Post], error)
}
