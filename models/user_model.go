package models

import "time"

type User struct {
	ID        uint   `json:"ID" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"size:100;not null" validate:"required"`
	Username  string `json:"username" gorm:"size:50;unique;not null" validate:"required"`
	Password  string `json:"-" gorm:"size:255;not null"`
	Role      string `json:"role" gorm:"size:30;default:staff"`
	BranchID  uint   `json:"branch_id" gorm:"index;default:null"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
