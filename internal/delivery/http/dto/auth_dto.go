package dto

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string      `json:"token,omitempty"`
	User  *UserOutput `json:"user,omitempty"`
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// RegisterResponse tells the client where to go after registering
type RegisterResponse struct {
	Message string `json:"message"`
	Next    string `json:"next"`
}

// FormStateResponse reports whether the caller's form has a submission in flight
type FormStateResponse struct {
	Pending bool `json:"pending"`
}
