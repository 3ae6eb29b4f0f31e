package dto

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required"`
}

type RegisterResponse struct {
	Username string `json:"username"`
	Status   string `json:"status"`
}

// TokenRequest is bound from form fields, OAuth2 password-flow style.
type TokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
