package models

import "time"

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"column:nome;type:varchar(255);not null" json:"nome"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:senha_hash;type:varchar(255);not null" json:"-"`
	Company      *string   `gorm:"column:empresa;type:varchar(255)" json:"empresa"`
	Role         string    `gorm:"type:varchar(20);not null;default:'usuario'" json:"role"`
	CreatedAt    time.Time `gorm:"column:data_criacao" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "usuarios"
}
