package models

import "github.com/golang-jwt/jwt/v5"

// UserRole identifies the caller's role within the platform.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleTeacher    UserRole = "TEACHER"
	RoleParent     UserRole = "PARENT"
)

// JWTClaims carries the identity embedded in access tokens issued by the
// platform's auth service. This service only validates them.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Tenant string   `json:"tenant"`
	jwt.RegisteredClaims
}

// Pagination describes list metadata in responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
