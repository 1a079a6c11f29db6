package models

import (
	"time"
)

type Task struct {
	ID            uint64     `gorm:"primarykey" json:"id"`
	Title         string     `gorm:"column:titulo;type:varchar(255);not null" json:"titulo"`
	Description   *string    `gorm:"column:descricao;type:text" json:"descricao"`
	Status        string     `gorm:"type:varchar(50);not null;default:'pendente'" json:"status"`
	Priority      string     `gorm:"column:prioridade;type:varchar(50);not null;default:'media'" json:"prioridade"`
	Completed     bool       `gorm:"column:concluida;not null;default:false" json:"concluida"`
	DueDate       *time.Time `gorm:"column:data_limite;type:date" json:"data_limite"`
	StartDate     *time.Time `gorm:"column:data_inicio;type:date" json:"data_inicio"`
	EndDate       *time.Time `gorm:"column:data_fim;type:date" json:"data_fim"`
	ProjectID     *uint64    `gorm:"column:projeto_id;index" json:"projeto_id"`
	ResponsibleID uint64     `gorm:"column:usuario_responsavel_id;not null;index" json:"usuario_responsavel_id"`
	AssignerID    uint64     `gorm:"column:usuario_atribuidor_id;not null;index" json:"usuario_atribuidor_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	Project     *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"-"`
	Responsible User     `gorm:"foreignKey:ResponsibleID;constraint:OnDelete:CASCADE" json:"-"`
	Assigner    User     `gorm:"foreignKey:AssignerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Task) TableName() string {
	return "tarefas"
}
