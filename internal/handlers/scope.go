package handlers

import (
	"net/http"

	"github.com/coursecraft/lms/internal/models"
	authMiddleware "github.com/coursecraft/lms/libs/auth/middleware"
)

// caller reads the authenticated user from the request context
func caller(r *http.Request) (int, models.Role, bool) {
	userID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		return 0, 0, false
	}
	role, ok := authMiddleware.GetRole(r.Context())
	if !ok {
		return 0, 0, false
	}
	return userID, models.Role(role), true
}

// instructorScope returns the ownership filter for studio operations.
// Admins get nil and may manage every course.
func instructorScope(userID int, role models.Role) *int {
	if role >= models.RoleAdmin {
		return nil
	}
	return &userID
}
