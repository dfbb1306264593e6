package main

import (
	"log"

	"github.com/MrSnakeDoc/vianime/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("vianime failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("vianime stopped with error: %v", err)
	}
}
