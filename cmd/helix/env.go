package main

import (
	"fmt"
	"os"

	"helix/pkg/config"
	"helix/pkg/tamarind"

	"github.com/joho/godotenv"
)

// loadDotenv layers a .env file from the working directory into the
// environment. Already-set variables win; a missing file is not an error.
func loadDotenv() {
	_ = godotenv.Load()
}

// requireEnv fetches an environment variable, erroring with a hint when it
// is unset.
func requireEnv(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("%s is not set (export it or add it to .env)", name)
	}
	return v, nil
}

// newTamarindClient builds a Tamarind client from the environment and cfg.
func newTamarindClient(cfg config.Config) (*tamarind.Client, error) {
	key, err := requireEnv("TAMARIND_API_KEY")
	if err != nil {
		return nil, err
	}
	return tamarind.NewClient(key, cfg.TamarindBaseURL)
}
