// Admin helper to set a bcrypt password hash for a user in the users table.
//
// Usage:
//
//	passwd EMAIL PASSWORD
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	internalaws "github.com/promodeagro/packer-workflow/internal/aws"
	"github.com/promodeagro/packer-workflow/internal/auth"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: passwd EMAIL PASSWORD")
		os.Exit(1)
	}
	email := os.Args[1]
	password := os.Args[2]

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	usersTable := os.Getenv("USERS_TABLE")
	if usersTable == "" {
		log.Fatal("USERS_TABLE is not set")
	}

	ctx := context.Background()
	clients, err := internalaws.NewAWSClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	store := auth.NewStore(clients.DynamoDB, usersTable)
	if err := store.SetPassword(ctx, email, password); err != nil {
		log.Fatalf("set password for %s: %v", email, err)
	}
	fmt.Println("password set for:", email)
}
