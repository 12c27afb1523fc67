package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/abdurrasheedfalalu/microblog/internal/models"
	"github.com/abdurrasheedfalalu/microblog/internal/services"
)

// CurrentUserKey is the Locals key under which AuthRequired stores the
// authenticated *models.User for downstream handlers.
const CurrentUserKey = "current_user"

// AuthRequired is a Fiber middleware that checks for a valid session JWT,
// loads the acting user, and records their activity. Handlers behind it
// receive the user via Locals rather than reading any ambient state.
func AuthRequired(authService *services.AuthService, userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		rawID, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		user, err := userService.GetUser(uint(rawID))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		if err := userService.TouchLastSeen(user.ID); err != nil {
			log.Printf("Failed to update last seen for user %d: %v", user.ID, err)
		}

		c.Locals(CurrentUserKey, user)

		return c.Next()
	}
}

// CurrentUser extracts the authenticated user stored by AuthRequired.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(CurrentUserKey).(*models.User)
	return user
}
