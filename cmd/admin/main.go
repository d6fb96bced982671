package main

import (
	"context"
	"log"
	"os"
	"salon/config"
	"salon/di"
	"salon/shared/logger"
)

const (
	argLength = 3
)

func main() {
	if len(os.Args) < argLength {
		log.Fatal("Usage: admin grant|revoke <email>")
	}

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	role := di.InitializeRole()
	ctx := context.Background()
	email := os.Args[2]

	switch os.Args[1] {
	case "grant":
		if err := role.Grant(ctx, email); err != nil {
			log.Fatal(err)
		}
	case "revoke":
		if err := role.Revoke(ctx, email); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatal("Invalid action. Use 'grant' or 'revoke'")
	}
}
