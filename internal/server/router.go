package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/activity"
	"github.com/leetguard/leetguard-server/internal/api"
	"github.com/leetguard/leetguard-server/internal/auth"
	"github.com/leetguard/leetguard-server/internal/blocklist"
	"github.com/leetguard/leetguard-server/internal/config"
	"github.com/leetguard/leetguard-server/internal/goal"
)

const requestIDHeader = "X-Request-ID"

type RouterParams struct {
	fx.In

	Config           *config.AppConfig
	Logger           *zap.Logger
	AuthHandler      *auth.Handler
	AuthMiddleware   *auth.AuthMiddleware
	BlocklistHandler *blocklist.Handler
	ActivityHandler  *activity.Handler
	GoalHandler      *goal.Handler
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(p.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   p.Config.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	}))
	r.Use(p.AuthMiddleware.Authenticate)

	r.Get(api.Health, func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post(api.AuthSignup, p.AuthHandler.Signup)
	r.Post(api.AuthLogin, p.AuthHandler.Login)
	r.Post(api.AuthRefresh, p.AuthHandler.Refresh)
	r.Post(api.AuthVerifyEmail, p.AuthHandler.VerifyEmail)
	r.Post(api.AuthResendCode, p.AuthHandler.ResendCode)
	r.Post(api.AuthOAuthGoogle, p.AuthHandler.OAuthLogin("google"))
	r.Post(api.AuthOAuthGitHub, p.AuthHandler.OAuthLogin("github"))
	r.Post(api.AuthForgotPassword, p.AuthHandler.ForgotPassword)
	r.Post(api.AuthResetPassword, p.AuthHandler.ResetPassword)

	r.Get(api.Me, p.AuthHandler.Me)
	r.Put(api.Me, p.AuthHandler.UpdateMe)
	r.Delete(api.Me, p.AuthHandler.DeleteMe)

	r.Get(api.Blocklist, p.BlocklistHandler.List)
	r.Post(api.BlocklistAdd, p.BlocklistHandler.Add)
	r.Delete(api.BlocklistRemove, p.BlocklistHandler.Remove)
	r.Get(api.BlocklistCheck, p.BlocklistHandler.Check)

	r.Post(api.Activities, p.ActivityHandler.Submit)
	r.Get(api.Activities, p.ActivityHandler.List)
	r.Get(api.ActivityStats, p.ActivityHandler.Stats)
	r.Get(api.Activity, p.ActivityHandler.Get)
	r.Put(api.Activity, p.ActivityHandler.Update)
	r.Delete(api.Activity, p.ActivityHandler.Delete)

	r.Get(api.Goal, p.GoalHandler.Get)
	r.Put(api.Goal, p.GoalHandler.Update)
	r.Post(api.GoalProgress, p.GoalHandler.AddProgress)

	return r
}

// requestID keeps a caller supplied X-Request-ID or generates one, and stores
// it where middleware.GetReqID finds it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
