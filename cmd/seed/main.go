// seed inserts development sample data for local testing. Run via ./scripts/seed.sh.
// Idempotent: skips inserts if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	clientdomain "iam-gateway/internal/client/domain"
	clientrepo "iam-gateway/internal/client/repository"
	"iam-gateway/internal/config"
	"iam-gateway/internal/db"
	factordomain "iam-gateway/internal/factor/domain"
	factorrepo "iam-gateway/internal/factor/repository"
	userdomain "iam-gateway/internal/user/domain"
	userrepo "iam-gateway/internal/user/repository"
)

const (
	devUserEmail = "dev@example.com"
	devUserID    = "dev-user-001"
	devClientID  = "dev-client-001"
)

// devStepUpRule challenges high-value transactions even after full authentication.
const devStepUpRule = "input.transaction.amount > 1000"

// devAdaptiveRule skips the challenge for low-risk sign-ins.
const devAdaptiveRule = "input.request.ip_risk < 30"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)
	clients := clientrepo.NewPostgresRepository(conn)
	factors := factorrepo.NewPostgresRepository(conn)

	existing, err := users.GetByEmail(ctx, devUserEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev@example.com exists). Skipping.")
		os.Exit(0)
	}

	now := time.Now().UTC()

	catalog := []factordomain.Factor{
		{ID: "otp", Type: factordomain.TypeOTP, Name: "Authenticator app"},
		{ID: "sms", Type: factordomain.TypeSMS, Name: "SMS code"},
		{ID: "email", Type: factordomain.TypeEmail, Name: "Email code"},
		{ID: "recovery", Type: factordomain.TypeRecoveryCode, Name: "Recovery code"},
	}
	for i := range catalog {
		if err := factors.SaveFactor(ctx, &catalog[i]); err != nil {
			log.Fatalf("seed factor %s: %v", catalog[i].ID, err)
		}
	}

	user := &userdomain.User{
		ID:        devUserID,
		Email:     devUserEmail,
		Name:      "Dev User",
		Status:    userdomain.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("create dev user: %v", err)
	}

	if err := factors.Enroll(ctx, devUserID, factordomain.EnrolledFactor{
		FactorID:    "otp",
		ChannelType: "totp",
		Activated:   true,
	}); err != nil {
		log.Fatalf("enroll dev user: %v", err)
	}

	client := &clientdomain.Client{
		ID:        devClientID,
		Name:      "Dev Console",
		FactorIDs: []string{"otp", "sms", "recovery"},
		MFASettings: clientdomain.MFASettings{
			StepUpRule:      devStepUpRule,
			AdaptiveMFARule: devAdaptiveRule,
			RememberDevice: clientdomain.RememberDeviceSettings{
				Active:             true,
				DeviceIdentifierID: "device-cookie",
				ExpirationSeconds:  cfg.DefaultRememberDeviceSeconds,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := clients.Save(ctx, client); err != nil {
		log.Fatalf("create dev client: %v", err)
	}

	log.Println("Seed completed successfully.")
	log.Printf("Dev user: %s, client: %s", devUserEmail, devClientID)
}
