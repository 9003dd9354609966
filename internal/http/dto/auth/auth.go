// Package auth contiene DTOs para endpoints de autenticación.
package auth

// LoginRequest representa la solicitud de login por password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest representa la solicitud de registro.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// SessionResponse representa la respuesta exitosa de login/registro.
type SessionResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"` // "Bearer"
	User        UserResponse `json:"user"`
}

// UserResponse representa la identidad expuesta al cliente.
type UserResponse struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// UpdateUserRequest es el patch de metadata del usuario actual.
type UpdateUserRequest struct {
	Metadata map[string]any `json:"metadata"`
}
