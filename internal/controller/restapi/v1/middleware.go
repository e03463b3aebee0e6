package v1

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/heartbeam/photo-service/internal/infrastructure/auth"
)

const _sessionKey = "session"

// authMiddleware resolves the bearer token into a Session and stores it
// in the request locals. Handlers never touch the token themselves.
func authMiddleware(tokens *auth.TokenManager) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return errorResponse(ctx, http.StatusUnauthorized, "missing bearer token")
		}

		session, err := tokens.Parse(token)
		if err != nil {
			return errorResponse(ctx, http.StatusUnauthorized, "invalid token")
		}

		ctx.Locals(_sessionKey, session)

		return ctx.Next()
	}
}

func sessionFrom(ctx *fiber.Ctx) *auth.Session {
	session, _ := ctx.Locals(_sessionKey).(*auth.Session)

	return session
}
