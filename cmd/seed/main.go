package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"useraccounts/internal/auth"
	"useraccounts/internal/config"
	"useraccounts/internal/db"
	apperrors "useraccounts/internal/errors"
	"useraccounts/internal/logger"
	"useraccounts/internal/repository"
	"useraccounts/internal/service"
)

// SeedUser is one entry of the seed file.
type SeedUser struct {
	Name          *string `json:"name"`
	UserName      string  `json:"user_name"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	ProfilePhoto  *string `json:"profile_photo"`
	Bio           *string `json:"bio"`
	Address       *string `json:"address"`
	Qualification *string `json:"qualification"`
	Skills        *string `json:"skills"`
	Gender        *string `json:"gender"`
}

func main() {
	file := flag.String("file", "seed/users.json", "path to a JSON array of users")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("load config", "error", err)
	}
	log := logger.New(cfg.LogLevel)
	log.Info("starting seed", "file", *file)

	users, err := readSeedFile(*file)
	if err != nil {
		log.Fatal("read seed file", "error", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal("connect to database", "error", err)
	}

	ctx := context.Background()
	if err := db.Migrate(ctx, gormDB, false); err != nil {
		log.Fatal("run migrations", "error", err)
	}

	// The seed never issues tokens to callers, but Create requires an issuer.
	svc := service.NewUserService(
		repository.NewUserRepository(gormDB),
		auth.NewPasswordHasher(cfg.BcryptCost),
		auth.NewJWTService(cfg.JWTSecret, 0),
		nil,
		log,
		cfg.StoreTimeout,
	)

	created, skipped, err := seedUsers(ctx, svc, users, log)
	if err != nil {
		log.Fatal("seed users", "error", err, "created", created, "skipped", skipped)
	}
	log.Info("seed completed", "created", created, "skipped", skipped, "total", len(users))
}

func readSeedFile(path string) ([]SeedUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var users []SeedUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

// seedUsers creates every user through the service. Entries whose email is
// taken or that fail validation are skipped; any other failure stops the run.
func seedUsers(ctx context.Context, svc service.UserService, users []SeedUser, log *logger.Logger) (created int, skipped int, err error) {
	for _, u := range users {
		_, _, err := svc.Create(ctx, service.CreateUserInput{
			Name:          u.Name,
			UserName:      u.UserName,
			Email:         u.Email,
			Password:      u.Password,
			ProfilePhoto:  u.ProfilePhoto,
			Bio:           u.Bio,
			Address:       u.Address,
			Qualification: u.Qualification,
			Skills:        u.Skills,
			Gender:        u.Gender,
		})
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrEmailTaken), errors.Is(err, apperrors.ErrValidation):
			log.Warn("skipping user", "email", u.Email, "reason", err)
			skipped++
		default:
			return created, skipped, fmt.Errorf("error creating user %s: %w", u.Email, err)
		}
	}
	return created, skipped, nil
}
