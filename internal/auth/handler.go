package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/api"
	"github.com/leetguard/leetguard-server/internal/oauth"
	"github.com/leetguard/leetguard-server/internal/token"
	"github.com/leetguard/leetguard-server/internal/user"
	"github.com/leetguard/leetguard-server/internal/verification"
)

const minResetPasswordLength = 8

type Handler struct {
	service  *Service
	verifier *verification.Workflow
	log      *zap.Logger
}

func NewHandler(service *Service, verifier *verification.Workflow, log *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		verifier: verifier,
		log:      log,
	}
}

type UserOut struct {
	ID          uint    `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"display_name"`
}

func toUserOut(u *user.User) UserOut {
	return UserOut{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func toTokenResponse(p *token.Pair) TokenResponse {
	return TokenResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken, TokenType: "bearer"}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	User      UserOut `json:"user"`
	EmailSent bool    `json:"email_sent"`
	Message   string  `json:"message"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := api.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	email, err := api.NormalizeEmail("email", req.Email)
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := api.Required("password", req.Password); err != nil {
		h.fail(w, err)
		return
	}

	res, err := h.service.Signup(r.Context(), email, req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, signupResponse{
		User:      toUserOut(res.User),
		EmailSent: res.EmailSent,
		Message:   res.Message,
	})
}

type loginTokensResponse struct {
	Kind string `json:"kind"`
	TokenResponse
}

type loginVerificationResponse struct {
	Kind            string `json:"kind"`
	Message         string `json:"message"`
	EmailSent       bool   `json:"email_sent"`
	VerificationURL string `json:"verification_url"`
}

// Login takes an OAuth2 password-grant style form: username carries the
// email.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, api.Invalid("", "malformed form body"))
		return
	}
	if err := api.Required("username", r.PostForm.Get("username")); err != nil {
		h.fail(w, err)
		return
	}
	if err := api.Required("password", r.PostForm.Get("password")); err != nil {
		h.fail(w, err)
		return
	}

	res, err := h.service.Login(r.Context(), strings.TrimSpace(r.PostForm.Get("username")), r.PostForm.Get("password"))
	if err != nil {
		h.fail(w, err)
		return
	}

	if res.VerificationRequired {
		api.WriteJSON(w, http.StatusOK, loginVerificationResponse{
			Kind:            "verification_required",
			Message:         res.Message,
			EmailSent:       res.EmailSent,
			VerificationURL: res.VerificationURL,
		})
		return
	}
	api.WriteJSON(w, http.StatusOK, loginTokensResponse{Kind: "tokens", TokenResponse: toTokenResponse(res.Tokens)})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := api.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if err := api.Required("refresh_token", req.RefreshToken); err != nil {
		h.fail(w, err)
		return
	}

	pair, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toTokenResponse(pair))
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w, "Not authenticated")
		return
	}
	api.WriteJSON(w, http.StatusOK, toUserOut(u))
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w, "Not authenticated")
		return
	}

	var req updateProfileRequest
	if err := api.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), u, req.DisplayName)
	if err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toUserOut(updated))
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w, "Not authenticated")
		return
	}

	if err := h.service.DeleteAccount(r.Context(), u); err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := api.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	email, err := api.NormalizeEmail("email", req.Email)
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := api.Required("code", req.Code); err != nil {
		h.fail(w, err)
		return
	}

	alreadyVerified, err := h.verifier.Verify(r.Context(), email, strings.TrimSpace(req.Code))
	if err != nil {
		h.fail(w, err)
		return
	}
	if alreadyVerified {
		api.WriteJSON(w, http.StatusOK, messageResponse{Message: "Email already verified."})
		return
	}
	api.WriteJSON(w, http.StatusOK, messageResponse{Message: "Email verified successfully! Welcome to LeetGuard!"})
}

type resendRequest struct {
	Email string `json:"email"`
}

func (h *Handler) ResendCode(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := api.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	email, err := api.NormalizeEmail("email", req.Email)
	if err != nil {
		h.fail(w, err)
		return
	}

	res, err := h.verifier.Resend(r.Context(), email)
	if err != nil {
		h.fail(w, err)
		return
	}
	if res.AlreadyVerified {
		api.WriteJSON(w, http.StatusOK, messageResponse{Message: "Email already verified."})
		return
	}
	api.WriteJSON(w, http.StatusOK, messageResponse{Message: "Verification code resent successfully. Please check your email."})
}

type oauthRequest struct {
	Provider    string `json:"provider"`
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

type oauthUser struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Name    *string `json:"name"`
	Picture *string `json:"picture"`
}

type oauthResponse struct {
	TokenResponse
	User oauthUser `json:"user"`
}

// OAuthLogin returns the handler for one provider route.
func (h *Handler) OAuthLogin(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req oauthRequest
		if err := api.DecodeJSON(w, r, &req); err != nil {
			h.fail(w, err)
			return
		}
		if err := api.Required("code", req.Code); err != nil {
			h.fail(w, err)
			return
		}
		if err := api.Required("redirect_uri", req.RedirectURI); err != nil {
			h.fail(w, err)
			return
		}
		if req.Provider != "" && !strings.EqualFold(req.Provider, provider) {
			h.fail(w, api.Invalid("provider", "does not match the endpoint"))
			return
		}

		res, err := h.service.OAuthLogin(r.Context(), provider, req.Code, req.RedirectURI)
		if err != nil {
			h.fail(w, err)
			return
		}

		out := oauthUser{
			ID:    strconv.FormatUint(uint64(res.User.ID), 10),
			Email: res.User.Email,
			Name:  res.User.DisplayName,
		}
		if res.Picture != "" {
			out.Picture = &res.Picture
		}
		api.WriteJSON(w, http.StatusOK, oauthResponse{TokenResponse: toTokenResponse(res.Tokens), User: out})
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := api.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	email, err := api.NormalizeEmail("email", req.Email)
	if err != nil {
		h.fail(w, err)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), email); err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, messageResponse{
		Message: "If an account with that email exists, a password reset link has been sent.",
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := api.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if err := api.Required("token", req.Token); err != nil {
		h.fail(w, err)
		return
	}
	if len(req.NewPassword) < minResetPasswordLength {
		h.fail(w, api.Invalid("new_password", "must be at least 8 characters"))
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, messageResponse{Message: "Password reset successfully. You can now log in."})
}

// fail maps service errors onto status codes. Anything unknown is logged and
// reported as 500.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	if api.WriteValidation(w, err) {
		return
	}

	var cooldown *verification.CooldownError
	var provider *oauth.Error
	switch {
	case errors.As(err, &cooldown):
		api.WriteError(w, http.StatusTooManyRequests, cooldown.Error())
	case errors.As(err, &provider):
		api.WriteError(w, http.StatusBadRequest, provider.Error())
	case errors.Is(err, oauth.ErrUnknownProvider):
		api.WriteError(w, http.StatusBadRequest, "Unsupported OAuth provider")
	case errors.Is(err, ErrEmailRegistered):
		api.WriteError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		api.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrRefreshPayload):
		api.WriteError(w, http.StatusUnauthorized, "Invalid refresh token payload")
	case errors.Is(err, ErrInvalidRefreshToken):
		api.WriteError(w, http.StatusUnauthorized, "Invalid refresh token")
	case errors.Is(err, ErrInvalidResetToken):
		api.WriteError(w, http.StatusBadRequest, "Invalid or expired reset token.")
	case errors.Is(err, user.ErrUserNotFound):
		api.WriteError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, verification.ErrCodeInvalid):
		api.WriteError(w, http.StatusBadRequest, "Invalid or expired verification code.")
	case errors.Is(err, verification.ErrDeliveryFailed):
		api.WriteError(w, http.StatusInternalServerError,
			"Failed to send verification email. Please try again later or contact support if the problem persists.")
	default:
		h.log.Error("auth request failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
