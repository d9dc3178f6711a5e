package main

import (
	"log"

	"github.com/MrSnakeDoc/linkpost/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ linkpost failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ linkpost failed: %v", err)
	}
}
