package api

import "net/http"

// Authentication endpoints
const (
	Health = "/health"

	AuthSignup         = "/auth/signup"
	AuthLogin          = "/auth/login"
	AuthRefresh        = "/auth/refresh"
	AuthVerifyEmail    = "/auth/verify-email-code"
	AuthResendCode     = "/auth/resend-verification-code"
	AuthOAuthGoogle    = "/auth/oauth/google"
	AuthOAuthGitHub    = "/auth/oauth/github"
	AuthForgotPassword = "/auth/forgot-password"
	AuthResetPassword  = "/auth/reset-password"

	Me = "/me"
)

// Data endpoints, all authenticated
const (
	Blocklist       = "/api/blocklist"
	BlocklistAdd    = "/api/blocklist/add"
	BlocklistRemove = "/api/blocklist/remove"
	BlocklistCheck  = "/api/blocklist/check/{website}"

	Activities    = "/api/activity"
	Activity      = "/api/activity/{id}"
	ActivityStats = "/api/activity/stats"

	Goal         = "/api/me/goal"
	GoalProgress = "/api/me/goal/progress"
)

// PublicEndpoints defines endpoints that don't require authentication.
// Keys are "METHOD path".
var PublicEndpoints = map[string]bool{
	http.MethodGet + " " + Health:              true,
	http.MethodPost + " " + AuthSignup:         true,
	http.MethodPost + " " + AuthLogin:          true,
	http.MethodPost + " " + AuthRefresh:        true,
	http.MethodPost + " " + AuthVerifyEmail:    true,
	http.MethodPost + " " + AuthResendCode:     true,
	http.MethodPost + " " + AuthOAuthGoogle:    true,
	http.MethodPost + " " + AuthOAuthGitHub:    true,
	http.MethodPost + " " + AuthForgotPassword: true,
	http.MethodPost + " " + AuthResetPassword:  true,
}

func IsPublic(method, path string) bool {
	if method == http.MethodOptions {
		return true
	}
	return PublicEndpoints[method+" "+path]
}
