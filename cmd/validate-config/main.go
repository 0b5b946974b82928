// Command validate-config loads the environment the same way the server does
// and reports whether it would start, without touching the database or any
// provider.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/moodsyncai/moodsync/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("configuration OK (server port %s, db %s@%s:%s, gemini model %s)\n",
		cfg.Server.Port, cfg.DB.DBName, cfg.DB.Host, cfg.DB.Port, cfg.AI.GeminiModel)
}
