package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"weddingmarket/internal/config"
	"weddingmarket/internal/database"
	"weddingmarket/internal/domain"
	jwtsvc "weddingmarket/internal/pkg/jwt"
	"weddingmarket/internal/pkg/logger"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     domain.UserRole
}

var users = []seedUser{
	{"Admin", "admin@wedding.local", "admin123", domain.RoleAdmin},
	{"Demo User", "user@wedding.local", "user123", domain.RoleUser},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log.Level, "console")
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	log.Info("running migrations")
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	ctx := context.Background()
	tokens := jwtsvc.New(cfg.JWT.Secret, cfg.JWT.TTL)

	log.Info("creating users")
	for _, su := range users {
		u, err := upsertUser(ctx, db, su)
		if err != nil {
			log.Fatal("seed user failed", zap.String("email", su.email), zap.Error(err))
		}
		token, err := tokens.GenerateToken(u.ID, string(u.Role))
		if err != nil {
			log.Fatal("token failed", zap.Error(err))
		}
		fmt.Printf("%s (%s / %s)\n  Bearer %s\n", u.Role, su.email, su.password, token)
	}

	log.Info("creating templates")
	for i := 1; i <= 4; i++ {
		t := domain.Template{
			Name:  fmt.Sprintf("template_%d", i),
			Title: fmt.Sprintf("Invitation Template %d", i),
			Price: decimal.NewFromInt(30),
		}
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "price", "updated_at"}),
		}).Create(&t).Error; err != nil {
			log.Fatal("seed template failed", zap.String("name", t.Name), zap.Error(err))
		}
	}

	log.Info("creating packages")
	if err := seedPackages(ctx, db); err != nil {
		log.Fatal("seed packages failed", zap.Error(err))
	}

	log.Info("seed completed")
}

func upsertUser(ctx context.Context, db *gorm.DB, su seedUser) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := domain.User{Name: su.name, Email: su.email, PasswordHash: string(hash), Role: su.role}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "password_hash", "role", "updated_at"}),
	}).Create(&u).Error
	if err != nil {
		return nil, err
	}
	// the conflict path leaves ID unset on some dialects
	if err := db.WithContext(ctx).Where("email = ?", su.email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func seedPackages(ctx context.Context, db *gorm.DB) error {
	packages := []domain.Package{
		{
			ServiceTitle: "Lakeside Villa",
			Location:     "Lake Bled",
			About:        "Garden ceremony and lakeside dinner for up to 200 guests.",
			EstateDetails: domain.JSONList[domain.EstateDetail]{
				{Key: "Parking", Value: "80 cars"},
				{Key: "Rooms", Value: "24"},
			},
			IncludedServices: domain.JSONList[string]{"Venue", "Catering", "Decoration"},
			Price:            decimal.NewFromInt(4500),
			Address:          "Cesta svobode 1, Bled",
			Email:            "villa@wedding.local",
			Phone:            "+386 1 555 0100",
			Capacity:         200,
			ActiveStatus:     true,
		},
		{
			ServiceTitle: "City Loft",
			Location:     "Ljubljana",
			About:        "Industrial loft for intimate receptions.",
			EstateDetails: domain.JSONList[domain.EstateDetail]{
				{Key: "Floor", Value: "3rd, elevator"},
			},
			IncludedServices: domain.JSONList[string]{"Venue", "DJ"},
			Price:            decimal.NewFromInt(1800),
			Address:          "Trubarjeva 12, Ljubljana",
			Email:            "loft@wedding.local",
			Phone:            "+386 1 555 0200",
			Capacity:         80,
			ActiveStatus:     true,
		},
	}

	for i := range packages {
		p := packages[i]
		var existing domain.Package
		err := db.WithContext(ctx).Where("service_title = ?", p.ServiceTitle).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.WithContext(ctx).Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}
