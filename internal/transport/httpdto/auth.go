package httpdto

// RegisterRequest is used for POST /auth/register/
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned after successful registration
type RegisterResponse struct {
	User    UserDTO `json:"user"`
	Token   string  `json:"token"`
	Refresh string  `json:"refresh"`
}

// LoginRequest is used for POST /auth/login/
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPairResponse is returned after successful login
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest is used for POST /auth/refresh/
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse is returned after successful token refresh
type RefreshResponse struct {
	Access string `json:"access"`
}
