package identity

// AuthRequest carries operator credentials.
type AuthRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token string `json:"token"`
}
