package models

import "time"

// Role represents a user role. Higher values include the rights of lower ones.
type Role int

const (
	RoleStudent    Role = 1
	RoleInstructor Role = 2
	RoleAdmin      Role = 3
)

// String returns the role name
func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleInstructor:
		return "instructor"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Profile represents a user account
type Profile struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	AvatarURL    string    `json:"avatarUrl"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserToken represents a stored refresh token
type UserToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"max=255"`
}

// LoginRequest represents a login request. Login is either an email or a username.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh or logout request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenResponse represents an issued token pair
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	FullName  *string `json:"fullName,omitempty" validate:"omitempty,max=255"`
	AvatarURL *string `json:"avatarUrl,omitempty" validate:"omitempty,url,max=512"`
}

// UserListItem represents a user in admin list responses
type UserListItem struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateRoleRequest represents an admin role change
type UpdateRoleRequest struct {
	Role Role `json:"role" validate:"required,min=1,max=3"`
}

// PlatformStats holds admin dashboard counters
type PlatformStats struct {
	UsersByRole       map[string]int `json:"usersByRole"`
	CoursesByStatus   map[string]int `json:"coursesByStatus"`
	Enrollments       int            `json:"enrollments"`
	ActiveEnrollments int            `json:"activeEnrollments"`
	Certificates      int            `json:"certificates"`
	TotalXP           int            `json:"totalXp"`
}
