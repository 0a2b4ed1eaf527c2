package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/khoahotran/portfolio-cms/internal/domain/profile"
	"github.com/khoahotran/portfolio-cms/pkg/auth"
)

func main() {
	fmt.Println("adding owner into database...")

	err := godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	dsn := os.Getenv("DB_DSN")
	ownerEmail := strings.ToLower(strings.TrimSpace(os.Getenv("OWNER_EMAIL")))
	ownerPassword := os.Getenv("OWNER_PASSWORD")
	ownerName := strings.TrimSpace(os.Getenv("OWNER_NAME"))
	if dsn == "" || ownerEmail == "" || ownerPassword == "" {
		log.Fatalf("DB_DSN, OWNER_EMAIL and OWNER_PASSWORD must be set")
	}

	hash, err := auth.HashPassword(ownerPassword)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	var name *string
	if ownerName != "" {
		name = &ownerName
	}
	query := `
		INSERT INTO users (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET password_hash = $4, name = COALESCE($3, users.name)
	`
	if _, err = pool.Exec(ctx, query, uuid.New(), ownerEmail, name, hash); err != nil {
		log.Fatalf("cannot add user: %v", err)
	}
	fmt.Printf("added or updated owner '%s' successfully!\n", ownerEmail)

	// The profile row is created once; later runs leave edits alone.
	def := profile.DefaultConfig()
	if ownerName != "" {
		def.Name = ownerName
	}
	def.Email = ownerEmail
	tag, err := pool.Exec(ctx, `
		INSERT INTO portfolio_config (id, name, title, subtitle, email, location, about_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, profile.SingletonID, def.Name, def.Title, def.Subtitle, def.Email, def.Location, "")
	if err != nil {
		log.Fatalf("cannot seed profile: %v", err)
	}
	if tag.RowsAffected() == 1 {
		fmt.Println("seeded profile row")
	} else {
		fmt.Println("profile row already present, left unchanged")
	}
}
