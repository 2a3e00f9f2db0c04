package middleware

import (
	"coinstore/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminRequired checks that the authenticated user has the ADMIN role.
func AdminRequired() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

// ManagerRequired lets managers and admins through.
func ManagerRequired() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin, domain.RoleManager)
}
