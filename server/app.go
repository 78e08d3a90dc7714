package server

import (
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/itemo/auth"
	"github.com/itemo/chat"
	"github.com/itemo/config"
	"github.com/itemo/handlers"
	"github.com/itemo/logger"
	"github.com/itemo/models"
	"github.com/itemo/store"
	"github.com/itemo/tools"
)

// NewHandler assembles the stores, the tool executor and the chat driver
// behind the HTTP routes.
func NewHandler(cfg *config.Config, db *gorm.DB, model models.Model) http.Handler {
	loc := cfg.Location()

	events := store.NewEventStore(db)
	courts := store.NewCourtStore(db)
	members := store.NewMemberStore(db)

	exec := tools.NewExecutor(events, courts,
		tools.WithLocation(loc),
		tools.WithLogger(logger.NewLogger("tools", uuid.NewString())),
	)
	driver := chat.NewDriver(model, exec,
		chat.WithMaxTurns(cfg.Chat.MaxTurns),
		chat.WithMaxTokens(cfg.Model.MaxTokens),
		chat.WithLocation(loc),
		chat.WithLogger(logger.NewLogger("driver", uuid.NewString())),
	)
	tok := auth.NewT(auth.WithSecret(cfg.Auth.Secret), auth.WithTTL(cfg.Auth.TokenTTL))

	return SetupRoutes(tok, ServerConfigs(cfg.Server).CorsOrigins, API{
		Chat:   handlers.NewChat(members, driver),
		Events: handlers.Events(events, loc),
		Courts: handlers.Courts(courts),
		Me:     handlers.Me(members),
	})
}
