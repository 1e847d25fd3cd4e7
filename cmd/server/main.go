package main

import (
	"os"

	"lumen-ai/backend/internal/app"
)

// @title           Lumen AI Backend API
// @version         1.0
// @description     Conversation and account management API for the Lumen assistant.
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
