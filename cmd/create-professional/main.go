// CLI tool to create a professional account with a bcrypt-hashed password
// and a random auth token.
// Usage: go run ./cmd/create-professional (from the repo root)
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	reader := bufio.NewReader(os.Stdin)
	username := prompt(reader, "Username: ")
	email := prompt(reader, "Email: ")
	password := prompt(reader, "Password: ")

	if err := validateInput(username, email, password); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	authToken := uuid.New().String()

	var professionalID int
	err = conn.QueryRow(ctx,
		`INSERT INTO professionals (username, email, password, auth_token)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		username, email, string(hash), authToken,
	).Scan(&professionalID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating professional: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nProfessional created successfully!\n")
	fmt.Printf("  ID:         %d\n", professionalID)
	fmt.Printf("  Username:   %s\n", username)
	fmt.Printf("  Auth Token: %s\n", authToken)
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	s, _ := r.ReadString('\n')
	return strings.TrimSpace(s)
}

func validateInput(username, email, password string) error {
	if username == "" {
		return errors.New("username is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("email %q: %w", email, err)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	return nil
}
