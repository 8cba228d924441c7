package main

import (
	"log"

	"td-generator-be/internal/config"
	"td-generator-be/internal/server"
)

func main() {
	cfg := config.Load()

	if err := server.Serve(cfg); err != nil {
		log.Fatal(err)
	}
}
