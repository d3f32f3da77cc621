// database/seeder.go
package database

import (
	"errors"
	"ledger-app/models"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedBranches(db)
	SeedAdminUser(db)
}

func SeedBranches(db *gorm.DB) {
	branches := []models.Branch{
		{
			Code: "HQ",
			Name: "Head Office Store",
		},
		{
			Code: "BR01",
			Name: "Downtown Branch",
		},
	}

	for _, b := range branches {
		var existing models.Branch
		if err := db.Where("code = ?", b.Code).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				b.IsActive = true
				db.Create(&b)
			}
		}
	}
}

func SeedAdminUser(db *gorm.DB) {
	var existing models.User
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Unexpected DB error: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	admin := models.User{
		Name:     "Administrator",
		Username: "admin",
		Password: string(hashed),
		Role:     "admin",
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
}
