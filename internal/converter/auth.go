package converter

import (
	"lottery_backend/internal/api/dto/auth"
	"lottery_backend/internal/model"
)

func RegisterRequestToUserModel(req *auth.RegisterRequest) *model.User {
	return &model.User{
		Name:     req.Name,
		Login:    req.Login,
		Password: req.Password,
	}
}

func LoginRequestToUserModel(req *auth.LoginRequest) *model.User {
	return &model.User{
		Login:    req.Login,
		Password: req.Password,
	}
}
