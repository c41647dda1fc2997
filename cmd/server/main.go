package main

import (
	"log"

	"github.com/Rtvk-001/FilmHive/internal/transport/http"
)

func main() {
	if err := http.Run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
