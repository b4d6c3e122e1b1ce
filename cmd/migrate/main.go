// Command migrate applies the embedded SQL migrations and optionally seeds
// the default categories and a first admin account.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"backoffice/internal/db"
	"backoffice/internal/domain/categories"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
)

func newLogger() *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stdout), zapcore.InfoLevel)
	return zap.New(core).Sugar()
}

func main() {
	var (
		seed       = flag.Bool("seed", false, "insert the default product categories")
		dryRun     = flag.Bool("dry-run", false, "print pending migrations without applying them")
		adminEmail = flag.String("admin-email", "", "create an admin account with this email if it does not exist (password from ADMIN_PASSWORD)")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Println("Error loading .env file:", err)
	}

	logger := newLogger()
	defer logger.Sync()

	dsn := db.DSN(db.DSNParts{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	})

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		logger.Fatalw("database unreachable", "error", err)
	}

	m := &migrator{db: conn, logger: logger}
	if err := m.up(ctx, *dryRun); err != nil {
		logger.Fatal(err)
	}
	if *dryRun {
		return
	}

	if *seed {
		res, err := seedCategories(ctx, conn, categories.Defaults)
		if err != nil {
			logger.Fatal(err)
		}
		logger.Infow("categories seeded", "inserted", res.Inserted, "skipped", res.Skipped)
	}

	if *adminEmail != "" {
		created, err := ensureAdmin(ctx, conn, *adminEmail, os.Getenv("ADMIN_PASSWORD"))
		if err != nil {
			logger.Fatal(err)
		}
		if created {
			logger.Infow("admin account created", "email", *adminEmail)
		} else {
			logger.Infow("admin account already exists", "email", *adminEmail)
		}
	}
}

// seedCategories inserts each default category and skips prefixes that are
// already taken.
func seedCategories(ctx context.Context, conn *sql.DB, defaults []categories.Category) (categories.SeedResult, error) {
	res := categories.SeedResult{Inserted: []string{}, Skipped: []string{}}
	for _, c := range defaults {
		status := c.Status
		if status == "" {
			status = "active"
		}
		out, err := conn.ExecContext(ctx, `
			INSERT INTO product_categories (name, prefix, description, status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (prefix) DO NOTHING
		`, c.Name, c.Prefix, c.Description, status)
		if err != nil {
			return res, fmt.Errorf("seed category %s: %w", c.Prefix, err)
		}
		if n, _ := out.RowsAffected(); n == 0 {
			res.Skipped = append(res.Skipped, c.Prefix)
			continue
		}
		res.Inserted = append(res.Inserted, c.Prefix)
	}
	return res, nil
}

func ensureAdmin(ctx context.Context, conn *sql.DB, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 8 {
		return false, fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	out, err := conn.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role, status)
		VALUES ($1, $2, 'Admin', '', 'admin', 'active')
		ON CONFLICT (email) DO NOTHING
	`, email, hash)
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	n, _ := out.RowsAffected()
	return n > 0, nil
}
