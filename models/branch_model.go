package models

import "time"

type Branch struct {
	ID        uint   `json:"ID" gorm:"primaryKey"`
	Code      string `json:"code" gorm:"size:20;unique;not null" validate:"required"`
	Name      string `json:"name" gorm:"size:100;not null" validate:"required"`
	Address   string `json:"address" gorm:"size:255"`
	Phone     string `json:"phone" gorm:"size:50"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy int
	UpdatedBy int
}
