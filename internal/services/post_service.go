package services

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/abdurrasheedfalalu/microblog/internal/models"
	"github.com/abdurrasheedfalalu/microblog/internal/repositories"
	"github.com/abdurrasheedfalalu/microblog/pkg/translator"
)

// PostService handles business logic for posts and the feed queries.
type PostService struct {
	postRepo   repositories.PostRepository
	userRepo   repositories.UserRepository
	translator translator.Translator
	maxBodyLen int // configured length bound, in runes
}

// NewPostService creates a new PostService. maxBodyLen comes from
// configuration so the length bound is not baked into the logic.
func NewPostService(postRepo repositories.PostRepository, userRepo repositories.UserRepository, tr translator.Translator, maxBodyLen int) *PostService {
	return &PostService{
		postRepo:   postRepo,
		userRepo:   userRepo,
		translator: tr,
		maxBodyLen: maxBodyLen,
	}
}

// CreatePost validates and stores a new status update for the author. An
// empty body or one over the configured bound is rejected. The language tag
// is advisory: a missing one triggers detection, and an unusable one is
// cleared rather than failing the post.
func (s *PostService) CreatePost(author *models.User, body, languageTag string) (*models.Post, error) {
	if body == "" {
		return nil, ErrEmptyPostBody
	}
	if utf8.RuneCountInString(body) > s.maxBodyLen {
		return nil, ErrPostTooLong
	}

	lang := translator.NormalizeTag(languageTag)
	if lang == translator.Unknown && s.translator != nil {
		lang = translator.NormalizeTag(s.translator.Detect(body))
	}

	post := &models.Post{
		Body:      body,
		Language:  lang,
		UserID:    author.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	post.User = *author
	return post, nil
}

// Feed returns one page of posts visible to the user: their own posts plus
// posts by everyone they follow, newest first.
func (s *PostService) Feed(user *models.User, page, pageSize int) (*models.PagedResult[models.Post], error) {
	return s.postRepo.FollowedPosts(user.ID, page, pageSize)
}

// Explore returns one page of every post on the site, newest first,
// independent of the follow graph.
func (s *PostService) Explore(page, pageSize int) (*models.PagedResult[models.Post], error) {
	return s.postRepo.AllPosts(page, pageSize)
}

// PostsByUser returns one page of the named user's posts for their profile.
func (s *PostService) PostsByUser(username string, page, pageSize int) (*models.PagedResult[models.Post], error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user %s: %w", username, err)
	}
	return s.postRepo.PostsByUser(user.ID, page, pageSize)
}

// Translate renders a post's body into the target language via the external
// translation service. Service failures surface as an error the handler
// reports as unavailable; they never corrupt the stored post.
func (s *PostService) Translate(postID uint, targetLang string) (string, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrPostNotFound
		}
		return "", err
	}

	target := translator.NormalizeTag(targetLang)
	if target == translator.Unknown {
		return "", translator.ErrUnavailable
	}
	return s.translator.Translate(post.Body, post.Language, target)
}
