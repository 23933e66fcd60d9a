package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"performance-core/internal/container"
	"performance-core/internal/middleware"

	"go.uber.org/fx"
)

func main() {
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: go run cmd/admin-token/main.go [-ttl 24h] <subject>")
		fmt.Println("Example: go run cmd/admin-token/main.go -ttl 720h dashboard")
		os.Exit(1)
	}

	subject := flag.Arg(0)

	app := fx.New(
		container.Core,
		fx.NopLogger,
		fx.Invoke(func(auth *middleware.AuthenticationMiddleware) {
			token, err := auth.IssueToken(subject, *ttl)
			if err != nil {
				log.Fatalf("Failed to generate JWT token: %v", err)
			}

			fmt.Printf("JWT Token for '%s' (valid %s):\n", subject, *ttl)
			fmt.Printf("%s\n", token)
			fmt.Printf("\nUse this token in the Authorization header:\n")
			fmt.Printf("Authorization: Bearer %s\n", token)
			fmt.Printf("\nExample curl command:\n")
			fmt.Printf("curl -H \"Authorization: Bearer %s\" http://localhost:5000/api/v1/campaigns\n", token)
		}),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	app.Stop(context.Background())
}
