package app

import (
	"net/http"

	"nalewka/internal/auth"
	"nalewka/internal/config"
	"nalewka/internal/db"
	apikeydomain "nalewka/internal/domain/apikey"
	batchdomain "nalewka/internal/domain/batch"
	ingredientdomain "nalewka/internal/domain/ingredient"
	liquordomain "nalewka/internal/domain/liquor"
	userdomain "nalewka/internal/domain/user"
	apikeyrepo "nalewka/internal/repository/postgres/apikey"
	batchrepo "nalewka/internal/repository/postgres/batch"
	ingredientrepo "nalewka/internal/repository/postgres/ingredient"
	liquorrepo "nalewka/internal/repository/postgres/liquor"
	userrepo "nalewka/internal/repository/postgres/user"
	"nalewka/internal/transport/httpserver"
	"nalewka/internal/transport/httpserver/handler"
	"nalewka/internal/transport/httpserver/middleware"
	"nalewka/pkg/logger"

	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	apiKeys := apikeydomain.NewService(apikeyrepo.NewPostgres(dbConn))
	liquors := liquordomain.NewService(liquorrepo.NewPostgres(dbConn))
	ingredients := ingredientdomain.NewService(ingredientrepo.NewPostgres(dbConn))
	batches := batchdomain.NewService(batchrepo.NewPostgres(dbConn))

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	handlers := handler.New(users, apiKeys, liquors, ingredients, batches, tokens, log)
	authMiddleware := middleware.NewAuth(tokens, apiKeys, users, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, authMiddleware)
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
