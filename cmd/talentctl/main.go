package main

import (
	"fmt"
	"os"

	"github.com/agrotalent/talent-hub/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// optional .env with TALENT_API_URL
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
