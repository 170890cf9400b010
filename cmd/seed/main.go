package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"

	"telecounsel/internal/database"
	"telecounsel/internal/domain"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "telecounsel.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	log.Println("cleaning old data")
	db.Exec("DELETE FROM messages")
	db.Exec("DELETE FROM appointments")
	db.Exec("DELETE FROM users")

	gofakeit.Seed(time.Now().UnixNano())

	specializations := []string{
		"Anxiety & Depression",
		"Relationship Counseling",
		"Family Therapy",
		"Career Counseling",
		"Trauma & PTSD",
		"Addiction Recovery",
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	log.Println("creating counselors")
	for i := 0; i < 10; i++ {
		counselor := domain.User{
			Email:          fmt.Sprintf("counselor%d@telecounsel.dev", i+1),
			PasswordHash:   string(hash),
			Role:           domain.RoleCounselor,
			Name:           gofakeit.Name(),
			Specialization: specializations[gofakeit.Number(0, len(specializations)-1)],
			HourlyRate:     float64(gofakeit.Number(60, 180)),
			Bio:            gofakeit.Paragraph(1, 3, 12, " "),
		}
		if err := db.Create(&counselor).Error; err != nil {
			log.Fatalf("create counselor: %v", err)
		}
	}

	log.Println("creating clients")
	for i := 0; i < 20; i++ {
		client := domain.User{
			Email:        fmt.Sprintf("client%d@telecounsel.dev", i+1),
			PasswordHash: string(hash),
			Role:         domain.RoleClient,
			Name:         gofakeit.Name(),
		}
		if err := db.Create(&client).Error; err != nil {
			log.Fatalf("create client: %v", err)
		}
	}

	log.Println("seed complete")
}
