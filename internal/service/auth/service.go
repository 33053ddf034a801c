package auth

import (
	"lottery_backend/internal/config"
	"lottery_backend/internal/repository"
	"lottery_backend/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
)

type serv struct {
	txManager trm.Manager
	userRepo  repository.UserRepository
	authRepo  repository.AuthRepository
	jwtConfig config.JWTConfig
}

func NewAuthService(
	userRepo repository.UserRepository,
	authRepo repository.AuthRepository,
	jwtConfig config.JWTConfig,
	txManager trm.Manager,
) service.AuthService {
	return &serv{
		txManager: txManager,
		userRepo:  userRepo,
		authRepo:  authRepo,
		jwtConfig: jwtConfig,
	}
}

// generateSessionID - генерирует уникальный идентификатор сессии
func generateSessionID() string {
	return uuid.NewString()
}
