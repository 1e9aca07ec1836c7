package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; local development convenience only.
	_ = godotenv.Load()

	Execute()
}
