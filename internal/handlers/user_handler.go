package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/abdurrasheedfalalu/microblog/internal/middleware"
	"github.com/abdurrasheedfalalu/microblog/internal/services"
)

// UserHandler handles HTTP requests for profiles and the follow graph.
type UserHandler struct {
	userService *services.UserService
	postService *services.PostService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, postService *services.PostService) *UserHandler {
	return &UserHandler{
		userService: userService,
		postService: postService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/:username", h.HandleGetProfile)
	userRoutes.Post("/:username/follow", h.HandleFollow)
	userRoutes.Delete("/:username/follow", h.HandleUnfollow)

	router.Put("/profile", h.HandleUpdateProfile)
}

// HandleGetProfile returns a user's profile with follow counts and one page
// of their posts.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	profile, err := h.userService.GetProfile(username)
	if err != nil {
		log.Printf("Error loading profile for %s: %v", username, err)
		return serviceError(c, err)
	}

	page, pageSize := pageParams(c)
	posts, err := h.postService.PostsByUser(username, page, pageSize)
	if err != nil {
		log.Printf("Error loading posts for %s: %v", username, err)
		return serviceError(c, err)
	}

	// Tell the viewer whether they already follow this profile.
	following := false
	if actor := middleware.CurrentUser(c); actor != nil && actor.ID != profile.User.ID {
		following, err = h.userService.IsFollowing(actor, username)
		if err != nil {
			return serviceError(c, err)
		}
	}

	return c.JSON(fiber.Map{
		"profile":      profile,
		"posts":        posts,
		"is_following": following,
	})
}

// UpdateProfileRequest represents the request body for a profile edit.
type UpdateProfileRequest struct {
	Username string `json:"username" validate:"omitempty,min=3,max=64"`
	AboutMe  string `json:"about_me" validate:"omitempty,max=280"`
}

// HandleUpdateProfile edits the acting user's username and about-me text.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, err := h.userService.UpdateProfile(actor, req.Username, req.AboutMe)
	if err != nil {
		log.Printf("Error updating profile for user %d: %v", actor.ID, err)
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Your changes have been saved",
		"user":    user,
	})
}

// HandleFollow adds a follow edge from the acting user to the named user.
func (h *UserHandler) HandleFollow(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	username := c.Params("username")

	if err := h.userService.Follow(actor, username); err != nil {
		log.Printf("Error following %s: %v", username, err)
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "You are now following " + username,
	})
}

// HandleUnfollow removes the follow edge from the acting user to the named
// user.
func (h *UserHandler) HandleUnfollow(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	username := c.Params("username")

	if err := h.userService.Unfollow(actor, username); err != nil {
		log.Printf("Error unfollowing %s: %v", username, err)
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "You are no longer following " + username,
	})
}
