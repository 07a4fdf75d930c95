package dto

// TokenRequest represents login credentials
type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents issued bearer token information. IsTeacher
// is included so the frontend can route to the right landing page
// without an extra profile call.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
	IsTeacher   bool   `json:"isTeacher"`
}

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=64"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	IsTeacher bool   `json:"isTeacher"`
}

// UserResponse represents basic account information
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsTeacher bool   `json:"isTeacher"`
}
