package model

// LoginRequest carries the credentials presented at login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}
