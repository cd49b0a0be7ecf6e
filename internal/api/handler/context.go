package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyflow/crm-system/internal/core/domain"
)

// ctxIdentity extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - user_id must be non-empty; without it the JWT is structurally valid
//     but operationally unusable, so reject with 401.
func ctxIdentity(c echo.Context) (role, userID string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
	}

	return role, userID, nil
}

// actorFromClaims rebuilds the minimal acting user the service layer needs
// for its ownership scoping.
func actorFromClaims(role, userID string) *domain.User {
	return &domain.User{ID: userID, Role: role}
}
