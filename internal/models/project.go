package models

import (
	"time"
)

type Project struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"column:nome;type:varchar(255);not null" json:"nome"`
	Description *string    `gorm:"column:descricao;type:text" json:"descricao"`
	StartDate   *time.Time `gorm:"column:data_inicio;type:date" json:"data_inicio"`
	EndDate     *time.Time `gorm:"column:data_fim;type:date" json:"data_fim"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pendente'" json:"status"`
	UserID      uint64     `gorm:"column:usuario_id;not null;index" json:"usuario_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Owner User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Project) TableName() string {
	return "projetos"
}
