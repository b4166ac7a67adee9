package models

// Role determines which parts of the application a user can reach.
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleManager || r == RoleEmployee
}

type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      Role   `json:"role"`
	IsActive  bool   `json:"is_active"`
	ManagerID *int   `json:"manager_id,omitempty"`
}

// UserCreate is the registration payload. The server enforces that employees
// name a manager; the client only checks the shape before sending.
type UserCreate struct {
	Email     string `json:"email" validate:"required,email"`
	FullName  string `json:"full_name" validate:"required"`
	Role      Role   `json:"role" validate:"required,oneof=manager employee"`
	Password  string `json:"password" validate:"required"`
	ManagerID *int   `json:"manager_id,omitempty"`
}

// UserUpdate carries only the fields being changed.
type UserUpdate struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Token is the response of the login endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
