package model

// AuthData - данные, выдаваемые пользователю при регистрации и входе
type AuthData struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
}
