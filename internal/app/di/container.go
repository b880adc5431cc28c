// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"declutter_backend/internal/app/config"
	authadapters "declutter_backend/internal/feature/auth/adapters"
	authentity "declutter_backend/internal/feature/auth/domain/entity"
	authhandler "declutter_backend/internal/feature/auth/transport/handler"
	authusecase "declutter_backend/internal/feature/auth/usecase"
	entriesadapters "declutter_backend/internal/feature/entries/adapters"
	entrieshandler "declutter_backend/internal/feature/entries/transport/handler"
	entriesusecase "declutter_backend/internal/feature/entries/usecase"
	"declutter_backend/internal/platform/cache"
	"declutter_backend/internal/platform/db"
	platformhandler "declutter_backend/internal/platform/http/handler"
	jwtmw "declutter_backend/internal/platform/jwt"
)

// Handlers holds everything the router needs.
type Handlers struct {
	Auth    *authhandler.AuthHandler
	Entries *entrieshandler.EntriesHandler
	Health  *platformhandler.HealthHandler
}

// NewHandlers wires repositories, usecases and handlers. rdb may be nil.
func NewHandlers(cfg config.Config, gdb *gorm.DB, rdb *redis.Client) (*Handlers, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// auth
	users := authadapters.NewUserGorm(gdb)
	sessions := NewSessionRepository(rdb, gdb)
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = authusecase.DefaultConfig.AccessTokenTTL
	}
	jwtGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), accessTTL)
	authUC := authusecase.NewAuthUsecase(users, sessions, jwtGen, authusecase.Config{
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    cfg.RefreshTokenTTL,
		MaxSessionsPerUser: cfg.MaxSessionsPerUser,
	})

	// entries（使用中タグ一覧はRedisキャッシュでラップ）
	entryRepo := cache.NewCachingEntryRepository(rdb, cfg.TagCacheTTL, entriesadapters.NewEntryGorm(gdb), "entries")
	tagRepo := entriesadapters.NewTagGorm(gdb)
	entriesUC := entriesusecase.NewEntryUsecase(entryRepo, tagRepo)

	return &Handlers{
		Auth:    authhandler.NewAuthHandler(authUC),
		Entries: entrieshandler.NewEntriesHandler(entriesUC),
		Health:  platformhandler.NewHealthHandler(sqlDB),
	}, nil
}

// Migrate creates every table in dependency order and seeds the starter tags.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	if err := db.Migrate(gdb, &authentity.User{}, &authadapters.SessionModel{}); err != nil {
		return err
	}
	return entriesadapters.Migrate(ctx, gdb)
}
