package api

import (
	"context"
	"net/http"

	"github.com/manhhung3004/Gentsshop/httpclient"
)

// Auth covers sign-in and account endpoints.
type Auth struct {
	client httpclient.Client
}

// NewAuth creates the auth module.
func NewAuth(c httpclient.Client) *Auth {
	return &Auth{client: c}
}

// Login exchanges email and password for a token and profile.
func (a *Auth) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	req := LoginRequest{Email: email, Password: password}
	if err := preflight(req); err != nil {
		return nil, err
	}

	var out AuthResult
	d := httpclient.NewDescriptor(http.MethodPost, PathLogin, httpclient.WithJSON(req))
	if err := send(ctx, a.client, d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers a new account. The avatar is optional.
func (a *Auth) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if err := preflight(req); err != nil {
		return nil, err
	}

	form := httpclient.NewMultipart().
		Field("name", req.Name).
		Field("email", req.Email).
		Field("password", req.Password)
	addUpload(form, "avatar", req.Avatar)

	var out AuthResult
	d := httpclient.NewDescriptor(http.MethodPost, PathRegister, httpclient.WithMultipart(form))
	if err := send(ctx, a.client, d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the server session.
func (a *Auth) Logout(ctx context.Context) error {
	return send(ctx, a.client, httpclient.NewDescriptor(http.MethodGet, PathLogout), nil)
}

// LoadUser returns the signed-in user's profile.
func (a *Auth) LoadUser(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := send(ctx, a.client, httpclient.NewDescriptor(http.MethodGet, PathMe), &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateProfile changes name, email and optionally the avatar.
func (a *Auth) UpdateProfile(ctx context.Context, req ProfileUpdate) error {
	if err := preflight(req); err != nil {
		return err
	}

	form := httpclient.NewMultipart().
		Field("name", req.Name).
		Field("email", req.Email)
	addUpload(form, "avatar", req.Avatar)

	return send(ctx, a.client, httpclient.NewDescriptor(http.MethodPut, PathUpdateProfile, httpclient.WithMultipart(form)), nil)
}

// UpdatePassword changes the password and returns a fresh token.
func (a *Auth) UpdatePassword(ctx context.Context, oldPassword, newPassword string) (*AuthResult, error) {
	req := PasswordUpdate{OldPassword: oldPassword, NewPassword: newPassword}
	if err := preflight(req); err != nil {
		return nil, err
	}

	var out AuthResult
	d := httpclient.NewDescriptor(http.MethodPut, PathUpdatePassword, httpclient.WithJSON(req))
	if err := send(ctx, a.client, d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks the backend to mail a reset link and returns its message.
func (a *Auth) ForgotPassword(ctx context.Context, email string) (string, error) {
	req := struct {
		Email string `json:"email" validate:"required,gs_email"`
	}{Email: email}
	if err := preflight(req); err != nil {
		return "", err
	}

	var out struct {
		Message string `json:"message"`
	}
	d := httpclient.NewDescriptor(http.MethodPost, PathForgotPassword, httpclient.WithJSON(req))
	if err := send(ctx, a.client, d, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ResetPassword sets a new password using the emailed reset token.
func (a *Auth) ResetPassword(ctx context.Context, token, password, confirmPassword string) (*AuthResult, error) {
	req := PasswordReset{Password: password, ConfirmPassword: confirmPassword}
	if err := preflight(req); err != nil {
		return nil, err
	}

	var out AuthResult
	d := httpclient.NewDescriptor(http.MethodPut, resource(PathResetPassword, token),
		httpclient.WithJSON(req), httpclient.WithRoute(PathResetPassword+"/:token"))
	if err := send(ctx, a.client, d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
