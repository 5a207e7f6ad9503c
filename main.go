package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/spigell/career-companion/cmd"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
