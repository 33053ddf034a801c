package main

import (
	"lottery_backend/internal/app"
	"log"
)

func main() {
	a := app.NewApp()
	if err := a.Run(); err != nil {
		log.Fatalf("app stopped with error: %v", err)
	}
}
