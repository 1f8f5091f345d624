// Command seed-user creates a user account directly in the database.
// Useful for bootstrapping a local environment without going through
// the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/clarity/clarity/internal/auth"
	"github.com/clarity/clarity/internal/model"
	"github.com/clarity/clarity/internal/repository"
)

type output struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		name        = flag.String("name", "Local User", "User display name")
		email       = flag.String("email", "local@clarity.test", "User email")
		password    = flag.String("password", "", "Password (must satisfy the registration policy)")
		jwtSecret   = flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "Token signing secret; omit to skip token output")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *password == "" {
		fmt.Fprintln(os.Stderr, "-password is required")
		os.Exit(1)
	}
	if unmet := auth.ValidatePassword(*password); len(unmet) > 0 {
		for _, rule := range unmet {
			fmt.Fprintln(os.Stderr, rule)
		}
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "run migrations:", err)
		os.Exit(1)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         *name,
		Email:        *email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		fmt.Fprintln(os.Stderr, "create user:", err)
		os.Exit(1)
	}

	var token string
	if *jwtSecret != "" {
		tokens, err := auth.NewTokenIssuer(*jwtSecret)
		if err != nil {
			fmt.Fprintln(os.Stderr, "token issuer:", err)
			os.Exit(1)
		}
		token, err = tokens.Issue(user.ID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "issue token:", err)
			os.Exit(1)
		}
	}

	if *format == "json" {
		out := output{UserID: user.ID, Email: user.Email, Token: token}
		if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, "encode output:", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("user_id:", user.ID)
	fmt.Println("email:", user.Email)
	if token != "" {
		fmt.Println("token:", token)
	}
}
