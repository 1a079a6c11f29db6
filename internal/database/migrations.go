package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds the secondary indexes used by the filtered task listings.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tarefas", "idx_tarefas_responsavel_concluida", "usuario_responsavel_id, concluida"},
		{"tarefas", "idx_tarefas_responsavel_status", "usuario_responsavel_id, status"},
		{"tarefas", "idx_tarefas_data_limite", "data_limite"},
		{"projetos", "idx_projetos_usuario_status", "usuario_id, status"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
