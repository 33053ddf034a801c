package app

import (
	"context"
	authAPI "lottery_backend/internal/api/auth"
	lotteryAPI "lottery_backend/internal/api/lottery"
	"lottery_backend/internal/config"
	"lottery_backend/internal/config/env"
	"lottery_backend/internal/middleware"
	"lottery_backend/internal/repository"
	"lottery_backend/internal/repository/auth_repo"
	"lottery_backend/internal/repository/entry_repo"
	"lottery_backend/internal/repository/house_repo"
	"lottery_backend/internal/repository/round_repo"
	"lottery_backend/internal/repository/user_repo"
	"lottery_backend/internal/service"
	"lottery_backend/internal/service/auth"
	"lottery_backend/internal/service/lottery"
	"lottery_backend/internal/sweeper"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

const configYAMLPath = "config.yaml"

type ServiceProvider struct {
	//TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Auth bits
	jwtCfg   config.JWTConfig
	authRepo repository.AuthRepository
	authServ service.AuthService
	authHand *authAPI.Handler

	// User bits
	userRepo repository.UserRepository

	// Lottery bits
	trackCfgs   []config.TrackConfig
	roundRepo   repository.RoundRepository
	entryRepo   repository.EntryRepository
	houseRepo   repository.HouseRepository
	lotteryServ service.LotteryService
	lotteryHand *lotteryAPI.Handler

	// Background sweeper
	sweeperCfg config.SweeperConfig
	sweep      *sweeper.Sweeper

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}

		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) AuthRepo(ctx context.Context) repository.AuthRepository {
	if sp.authRepo == nil {
		sp.authRepo = auth_repo.NewAuthRepository(sp.DBClient(ctx), trmpgx.DefaultCtxGetter)
	}
	return sp.authRepo
}

func (sp *ServiceProvider) UserRepo(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		sp.userRepo = user_repo.NewUserRepository(sp.DBClient(ctx), trmpgx.DefaultCtxGetter)
	}
	return sp.userRepo
}

func (sp *ServiceProvider) AuthService(ctx context.Context) service.AuthService {
	if sp.authServ == nil {
		sp.authServ = auth.NewAuthService(sp.UserRepo(ctx), sp.AuthRepo(ctx), sp.JWTCfg(), sp.TXManager(ctx))
	}
	return sp.authServ
}

func (sp *ServiceProvider) AuthHandler(ctx context.Context) *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{Serv: sp.AuthService(ctx)})
	}
	return sp.authHand
}

func (sp *ServiceProvider) TrackCfgs() []config.TrackConfig {
	if sp.trackCfgs == nil {
		cfgs, err := env.NewTrackConfigFromYAML(configYAMLPath)
		if err != nil {
			panic("failed to get track config: " + err.Error())
		}
		sp.trackCfgs = cfgs
	}
	return sp.trackCfgs
}

func (sp *ServiceProvider) RoundRepository(ctx context.Context) repository.RoundRepository {
	if sp.roundRepo == nil {
		sp.roundRepo = round_repo.NewRoundRepository(sp.DBClient(ctx), trmpgx.DefaultCtxGetter)
	}
	return sp.roundRepo
}

func (sp *ServiceProvider) EntryRepository(ctx context.Context) repository.EntryRepository {
	if sp.entryRepo == nil {
		sp.entryRepo = entry_repo.NewEntryRepository(sp.DBClient(ctx), trmpgx.DefaultCtxGetter)
	}
	return sp.entryRepo
}

func (sp *ServiceProvider) HouseRepository(ctx context.Context) repository.HouseRepository {
	if sp.houseRepo == nil {
		sp.houseRepo = house_repo.NewHouseRepository(sp.DBClient(ctx), trmpgx.DefaultCtxGetter)
	}
	return sp.houseRepo
}

func (sp *ServiceProvider) LotteryService(ctx context.Context) service.LotteryService {
	if sp.lotteryServ == nil {
		sp.lotteryServ = lottery.NewLotteryService(
			sp.TrackCfgs(),
			sp.RoundRepository(ctx),
			sp.EntryRepository(ctx),
			sp.HouseRepository(ctx),
			sp.UserRepo(ctx),
			sp.TXManager(ctx),
		)

		// Счета комиссии треков создаются один раз при старте
		for _, cfg := range sp.TrackCfgs() {
			if err := sp.HouseRepository(ctx).EnsureAccount(ctx, cfg.ID()); err != nil {
				panic("failed to ensure house account: " + err.Error())
			}
		}
	}
	return sp.lotteryServ
}

func (sp *ServiceProvider) LotteryHandler(ctx context.Context) *lotteryAPI.Handler {
	if sp.lotteryHand == nil {
		sp.lotteryHand = lotteryAPI.NewHandler(lotteryAPI.HandlerDeps{
			Serv: sp.LotteryService(ctx),
		})
	}
	return sp.lotteryHand
}

func (sp *ServiceProvider) SweeperCfg() config.SweeperConfig {
	if sp.sweeperCfg == nil {
		cfg, err := env.NewSweeperConfigFromYAML(configYAMLPath)
		if err != nil {
			panic("failed to get sweeper config: " + err.Error())
		}
		sp.sweeperCfg = cfg
	}
	return sp.sweeperCfg
}

func (sp *ServiceProvider) Sweeper(ctx context.Context) *sweeper.Sweeper {
	if sp.sweep == nil {
		sp.sweep = sweeper.New(sp.LotteryService(ctx), sp.SweeperCfg())
	}
	return sp.sweep
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		// Auth endpoints
		authHandler := sp.AuthHandler(ctx)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)

		// Lottery endpoints
		lotteryHandler := sp.LotteryHandler(ctx)
		r.Route("/lottery/{track}", func(rr chi.Router) {
			rr.Use(middleware.Auth(sp.JWTCfg()))
			rr.Get("/status", lotteryHandler.Status)
			rr.Post("/buy", lotteryHandler.Buy)
			rr.Get("/history", lotteryHandler.History)
		})

		sp.router = r
	}

	return sp.router
}
