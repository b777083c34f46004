// internal/storage/sqlite.go
package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"mcp-diet-calc/internal/models"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS foods (
        group_key TEXT NOT NULL,
        id TEXT NOT NULL,
        name TEXT NOT NULL,
        portion TEXT NOT NULL,
        position INTEGER NOT NULL,
        PRIMARY KEY (group_key, id)
    );

    CREATE INDEX IF NOT EXISTS idx_foods_group_position ON foods(group_key, position);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveCatalog replaces the stored catalog with the given one.
func (s *SQLiteStorage) SaveCatalog(catalog models.FoodCatalog) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM foods`); err != nil {
		return fmt.Errorf("failed to clear foods: %w", err)
	}

	foodQuery := `
        INSERT INTO foods (group_key, id, name, portion, position)
        VALUES (?, ?, ?, ?, ?)
    `
	for group, items := range catalog {
		for i, item := range items {
			_, err = tx.Exec(foodQuery, string(group), item.ID, item.Name, item.Portion, i)
			if err != nil {
				return fmt.Errorf("failed to insert food %s/%s: %w", group, item.ID, err)
			}
		}
	}

	return tx.Commit()
}

// LoadCatalog reads every stored food, keeping the saved order per group.
func (s *SQLiteStorage) LoadCatalog() (models.FoodCatalog, error) {
	query := `
        SELECT group_key, id, name, portion
        FROM foods
        ORDER BY group_key, position
    `

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	catalog := models.FoodCatalog{}
	for rows.Next() {
		var item models.FoodItem
		var group string

		if err := rows.Scan(&group, &item.ID, &item.Name, &item.Portion); err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}

		item.Group = models.GroupKey(group)
		catalog[item.Group] = append(catalog[item.Group], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read foods: %w", err)
	}

	return catalog, nil
}

func (s *SQLiteStorage) CountFoods() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM foods`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count foods: %w", err)
	}
	return n, nil
}
