package main

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"

	"github.com/goodsone/console/cmd/consolectl/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		pterm.Warning.Printf("failed to read .env: %v\n", err)
	}
	cmd.Execute()
}
