package model

// AdminLoginRequest is the payload for the placeholder admin gate.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
