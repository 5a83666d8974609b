package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/stratbench/stratbench/cmd/stratbench/cmd"
)

func main() {
	// Local .env overrides are optional.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
