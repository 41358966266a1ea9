// Command devtoken mints a signed bearer token for local API testing,
// using the same secret the server loads from the environment.
package main

import (
	"flag"
	"fmt"
	"log"

	"go-salesdash/internal/config"
	"go-salesdash/pkg/utils"
)

func main() {
	email := flag.String("email", "dev-admin@local", "email to assert in the token")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	utils.SetSecret(cfg.JWTSecret)

	token, err := utils.GenerateToken(*email)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	fmt.Println(token)
}
