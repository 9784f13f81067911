package dto

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=20,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// AuthResponse ใช้ทั้ง register และ login
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
