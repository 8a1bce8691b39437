package backend

import (
	"context"
	"net/http"
	"time"

	"propdesk/internal/types"
)

// AuthClient talks to the backend's authentication endpoints. Credential
// and session storage live entirely in the backend; the gateway only
// forwards them and materializes the plan context from the login response.
type AuthClient struct {
	c *Client
}

// LoginInput carries user credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterInput carries a new account registration.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Company  string `json:"company,omitempty"`
}

// PasswordResetInput requests a reset email.
type PasswordResetInput struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordChangeInput changes the password of the authenticated user.
type PasswordChangeInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// LoginResult is the backend's answer to a successful login or register.
type LoginResult struct {
	Token     string         `json:"token"`
	UserID    string         `json:"user_id"`
	TenantID  string         `json:"tenant_id"`
	Tier      types.PlanTier `json:"tier"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Login exchanges credentials for a session token and plan tier.
func (a *AuthClient) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	var out LoginResult
	err := a.c.doJSON(ctx, http.MethodPost, "/v1/auth/login", nil, in, &out)
	return out, err
}

// Register creates an account and logs it in.
func (a *AuthClient) Register(ctx context.Context, in RegisterInput) (LoginResult, error) {
	var out LoginResult
	err := a.c.doJSON(ctx, http.MethodPost, "/v1/auth/register", nil, in, &out)
	return out, err
}

// RequestPasswordReset triggers the reset email flow.
func (a *AuthClient) RequestPasswordReset(ctx context.Context, in PasswordResetInput) error {
	return a.c.doJSON(ctx, http.MethodPost, "/v1/auth/password-reset", nil, in, nil)
}

// ChangePassword updates the authenticated user's password.
func (a *AuthClient) ChangePassword(ctx context.Context, in PasswordChangeInput) error {
	return a.c.doJSON(ctx, http.MethodPost, "/v1/auth/password-change", nil, in, nil)
}

// Logout invalidates the session token held in ctx.
func (a *AuthClient) Logout(ctx context.Context) error {
	return a.c.doJSON(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, nil)
}
