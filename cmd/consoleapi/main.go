package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"github.com/goodsone/console/cmd/consoleapi/cmd"
)

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("WARNING: failed to read .env: %v", err)
	}
	cmd.Execute()
}
