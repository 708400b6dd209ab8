package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"hotelreserve/internal/database"
	"hotelreserve/internal/domain"
	"hotelreserve/internal/repository"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "hotel.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	hash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{Username: "admin", PasswordHash: string(hash)}
	if err := db.Table("users").Create(&admin).Error; err != nil {
		log.Fatal("seed admin failed:", err)
	}
	log.Println("Admin created: admin / admin123")

	for i := 1; i <= 3; i++ {
		hash, _ := bcrypt.GenerateFromPassword([]byte("guest123"), bcrypt.DefaultCost)
		guest := domain.User{
			Username:     fmt.Sprintf("guest%d", i),
			PasswordHash: string(hash),
		}
		if err := db.Table("users").Create(&guest).Error; err != nil {
			log.Fatal("seed guest failed:", err)
		}
	}

	// ================== ROOMS ==================
	log.Println("Creating rooms...")

	rooms := []domain.Room{
		{Number: "S-1", Type: domain.RoomSingle, Available: true},
		{Number: "S-2", Type: domain.RoomSingle, Available: true},
		{Number: "D-1", Type: domain.RoomDouble, Available: true},
		{Number: "D-2", Type: domain.RoomDouble, Available: true},
		{Number: "ST-1", Type: domain.RoomSuite, Available: true},
	}
	for i := range rooms {
		if err := db.Table("rooms").Create(&rooms[i]).Error; err != nil {
			log.Fatal("seed room failed:", err)
		}
		log.Printf("Room %s (%s) created", rooms[i].Number, rooms[i].Type)
	}

	log.Println("Seed complete")
}
