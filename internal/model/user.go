package model

import (
	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID       int
	Name     string
	Login    string
	Password string
	Balance  int64 // Баланс кошелька в целых единицах валюты
}

type UserClaims struct {
	jwt.RegisteredClaims
}
