package main

import (
	"github.com/joho/godotenv"

	"fashionhub/internal/client/cli"
)

// ServerURL is set via ldflags during build. e.g. -X main.ServerURL=https://shop.example.com
var ServerURL = ""

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	cli.Init(ServerURL)
	cli.Execute()
}
