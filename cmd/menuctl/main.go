// Command menuctl is a terminal client for the café menu API.
package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Env struct {
	APIURL string `env:"MENU_API_URL" envDefault:"http://localhost:8080"`
	Token  string `env:"MENU_API_TOKEN"`
}

func main() {
	_ = godotenv.Load()

	var e Env
	if err := env.Parse(&e); err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse env: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd(e).Execute(); err != nil {
		os.Exit(1)
	}
}
