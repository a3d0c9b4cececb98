package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/TapQuest_Go/internal/concurrency"
	"github.com/osse101/TapQuest_Go/internal/config"
	"github.com/osse101/TapQuest_Go/internal/leaderboard"
	"github.com/osse101/TapQuest_Go/internal/quest"
	"github.com/osse101/TapQuest_Go/internal/server"
	"github.com/osse101/TapQuest_Go/internal/shop"
	"github.com/osse101/TapQuest_Go/internal/user"
	"github.com/osse101/TapQuest_Go/internal/validation"
)

// InitializeServices loads the catalogs and builds every application service
func InitializeServices(cfg *config.Config, repos *Repositories, clock clockwork.Clock) (server.Services, error) {
	schemas := validation.NewSchemaValidator()

	if err := schemas.ValidateFile(cfg.ShopCatalogPath, cfg.ShopSchemaPath); err != nil {
		return server.Services{}, fmt.Errorf("%s: %w", ErrMsgLoadShopCatalog, err)
	}
	shopCatalog, err := shop.LoadCatalog(cfg.ShopCatalogPath)
	if err != nil {
		return server.Services{}, fmt.Errorf("%s: %w", ErrMsgLoadShopCatalog, err)
	}
	slog.Info(LogMsgShopCatalogLoaded, "path", cfg.ShopCatalogPath, "items", len(shopCatalog.Items()))

	questCatalog, err := quest.LoadCatalog(cfg.QuestCatalogPath, cfg.QuestSchemaPath, schemas)
	if err != nil {
		return server.Services{}, fmt.Errorf("%s: %w", ErrMsgLoadQuestCatalog, err)
	}
	slog.Info(LogMsgQuestCatalogLoaded, "path", cfg.QuestCatalogPath, "tasks", len(questCatalog.Tasks()))

	users := user.NewService(repos.User, concurrency.NewLockManager(), user.CacheConfig{
		Size: cfg.UserCacheSize,
		TTL:  cfg.UserCacheTTL,
	})

	return server.Services{
		Users:       users,
		Shop:        shop.NewService(shopCatalog, repos.User, users),
		Quests:      quest.NewService(questCatalog, repos.Quest, users, clock),
		Leaderboard: leaderboard.NewService(repos.Leaderboard, cfg.LeaderboardCacheTTL),
	}, nil
}
