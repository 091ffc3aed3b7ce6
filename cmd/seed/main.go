// Сидирование базы начальными данными: каталог планов и администратор.
// Повторный запуск безопасен, существующие строки не перезаписываются.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/ivankoval/subscription-dashboard/internal/config"
	"github.com/ivankoval/subscription-dashboard/internal/lib/password"
	"github.com/ivankoval/subscription-dashboard/internal/lib/sl"
	"github.com/ivankoval/subscription-dashboard/internal/migrations"
	"github.com/ivankoval/subscription-dashboard/internal/models"
	"github.com/ivankoval/subscription-dashboard/internal/storage/repository"
)

type seedPlan struct {
	name         string
	price        float64
	durationDays int
	features     []string
}

var seedPlans = []seedPlan{
	{
		name:         "Basic",
		price:        9.99,
		durationDays: 30,
		features: []string{
			"Access to basic features",
			"Email support",
			"5 GB storage",
			"Single user account",
		},
	},
	{
		name:         "Standard",
		price:        19.99,
		durationDays: 30,
		features: []string{
			"Access to standard features",
			"Priority email support",
			"50 GB storage",
			"Up to 5 user accounts",
			"Advanced analytics",
		},
	},
	{
		name:         "Premium",
		price:        29.99,
		durationDays: 30,
		features: []string{
			"Access to all premium features",
			"24/7 phone & email support",
			"200 GB storage",
			"Unlimited user accounts",
			"Advanced analytics & reporting",
			"Custom integrations",
		},
	},
	{
		name:         "Enterprise",
		price:        49.99,
		durationDays: 30,
		features: []string{
			"Enterprise-grade features",
			"Dedicated account manager",
			"Unlimited storage",
			"Unlimited user accounts",
			"Custom analytics & reporting",
			"API access",
			"White-label options",
			"SLA guarantee",
		},
	},
}

const (
	adminName     = "Admin User"
	adminEmail    = "admin@example.com"
	adminPassword = "Admin123"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := context.Background()

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		os.Exit(1)
	}
	defer db.DB.Close()

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", sl.Err(err))
		os.Exit(1)
	}

	for _, p := range seedPlans {
		features, err := json.Marshal(p.features)
		if err != nil {
			logger.Error("failed to marshal features", sl.Err(err))
			os.Exit(1)
		}
		_, err = db.DB.ExecContext(ctx,
			`INSERT INTO plans (name, price, duration_days, features, is_active)
			 VALUES ($1, $2, $3, $4, TRUE)
			 ON CONFLICT (name) DO NOTHING`,
			p.name, p.price, p.durationDays, features)
		if err != nil {
			logger.Error("failed to seed plan", slog.String("name", p.name), sl.Err(err))
			os.Exit(1)
		}
		logger.Info("plan seeded", slog.String("name", p.name))
	}

	hash, err := password.GetHash(adminPassword)
	if err != nil {
		logger.Error("failed to hash admin password", sl.Err(err))
		os.Exit(1)
	}
	_, err = db.DB.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (email) DO NOTHING`,
		adminName, adminEmail, hash, models.RoleAdmin)
	if err != nil {
		logger.Error("failed to seed admin user", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("admin user seeded", slog.String("email", adminEmail))

	logger.Info("database seeded successfully")
}
