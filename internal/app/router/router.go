// Package router はHTTPルーティングを構築します。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"declutter_backend/internal/app/di"
	"declutter_backend/internal/platform/http/middleware"
	jwtmw "declutter_backend/internal/platform/jwt"
	"declutter_backend/internal/shared/ratelimiter"
)

// Options controls the cross-cutting middleware.
type Options struct {
	AllowedOrigins []string
	AuthLimiter    ratelimiter.RateLimiterInterface // nil で無制限
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: len(origins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowAllOrigins = true
	}
	return cfg
}

func NewRouter(h *di.Handlers, opts Options) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)

	public := r.Group("/")
	if opts.AuthLimiter != nil {
		public.Use(ratelimiter.Middleware(opts.AuthLimiter))
	}
	{
		// 新規ユーザー登録
		public.POST("/signup", h.Auth.Signup)
		// ログイン（JWT + リフレッシュトークン発行）
		public.POST("/login", h.Auth.Login)
		public.POST("/refresh", h.Auth.Refresh)
		public.POST("/logout", h.Auth.Logout)
	}

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.GET("/me", h.Auth.Me)
	}

	// エントリー: 未ログインはハンドラー側で401を返す
	entries := r.Group("/entries")
	entries.Use(jwtmw.Authenticate(), middleware.OriginGuard(opts.AllowedOrigins))
	{
		entries.GET("", h.Entries.List)
		entries.GET("/new", h.Entries.NewForm)
		entries.POST("", h.Entries.Create)
		entries.GET("/:id", h.Entries.View)
		entries.GET("/:id/edit", h.Entries.EditForm)
		entries.PUT("/:id", h.Entries.Edit)
		entries.GET("/:id/delete", h.Entries.ConfirmDelete)
		entries.DELETE("/:id", h.Entries.Delete)
	}

	return r
}
