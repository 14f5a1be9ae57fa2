package middleware

import (
	"errors"
	"log"
	"strings"

	"tienda/internal/models"
	"tienda/internal/repositories"
	"tienda/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserKey is the Locals key under which AuthRequired stores the
// authenticated user.
const UserKey = "user"

// AuthRequired is a Fiber middleware to check for a valid JWT token. The
// user id claim is resolved against the repository on every request, so a
// token for a deleted user is rejected and role claims are always fresh.
func AuthRequired(authService *services.AuthService, userRepo repositories.UserRepository) fiber.Handler {
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

		tokenString := parts[1]

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		userID, _ := claims["user_id"].(string)
		user, err := userRepo.GetByID(userID)
		if err != nil {
			log.Printf("JWT user lookup failed for %q: %v", userID, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		// Store the full user in Fiber context for subsequent handlers
		c.Locals(UserKey, user)

		// Continue to the next handler
		return c.Next()
	}
}

// RoleRequired gates a route on the given role set. It must run after
// AuthRequired; an authenticated user passes an empty set, otherwise one
// of the listed roles must be held.
func RoleRequired(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if err := services.Authorize(user, roles); err != nil {
			if errors.Is(err, services.ErrForbidden) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"message": "Insufficient role",
					"error":   err.Error(),
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by AuthRequired, or
// nil when the request carried no identity.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}
