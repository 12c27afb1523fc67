package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/abdurrasheedfalalu/microblog/internal/middleware"
	"github.com/abdurrasheedfalalu/microblog/internal/services"
)

// PostHandler handles HTTP requests for posts and the feeds.
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// RegisterRoutes registers the post and feed routes with the Fiber app.
func (h *PostHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/feed", h.HandleFeed)
	router.Get("/explore", h.HandleExplore)

	postRoutes := router.Group("/posts")
	postRoutes.Post("/", h.HandleCreatePost)
	postRoutes.Post("/:id/translate", h.HandleTranslate)
}

// CreatePostRequest represents the request body for a new post. The length
// bound is enforced by the service against configuration, not here.
type CreatePostRequest struct {
	Body     string `json:"body"`
	Language string `json:"language"`
}

// HandleCreatePost creates a new status update for the acting user.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	post, err := h.postService.CreatePost(actor, req.Body, req.Language)
	if err != nil {
		log.Printf("Error creating post for user %d: %v", actor.ID, err)
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleFeed returns one page of the acting user's followed-posts feed.
func (h *PostHandler) HandleFeed(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	page, pageSize := pageParams(c)

	result, err := h.postService.Feed(actor, page, pageSize)
	if err != nil {
		log.Printf("Error loading feed for user %d: %v", actor.ID, err)
		return serviceError(c, err)
	}

	return c.JSON(result)
}

// HandleExplore returns one page of all posts on the site, newest first.
func (h *PostHandler) HandleExplore(c *fiber.Ctx) error {
	page, pageSize := pageParams(c)

	result, err := h.postService.Explore(page, pageSize)
	if err != nil {
		log.Printf("Error loading explore page: %v", err)
		return serviceError(c, err)
	}

	return c.JSON(result)
}

// TranslateRequest represents the request body for a translation.
type TranslateRequest struct {
	TargetLanguage string `json:"target_language"`
}

// HandleTranslate proxies a post body to the translation collaborator.
func (h *PostHandler) HandleTranslate(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil || postID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid post id",
		})
	}

	var req TranslateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	translated, err := h.postService.Translate(uint(postID), req.TargetLanguage)
	if err != nil {
		log.Printf("Error translating post %d: %v", postID, err)
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"text": translated,
	})
}
