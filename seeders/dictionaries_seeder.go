package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedNames(ctx context.Context, db *pgxpool.Pool, table string, names []string) error {
	log.Printf("  - Наполнение таблицы '%s'...", table)
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, table)

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for _, name := range names {
		if _, err := tx.Exec(ctx, query, name); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func seedRoles(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'user_roles'...")
	query := `INSERT INTO user_roles (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for _, r := range rolesData {
		if _, err := tx.Exec(ctx, query, r.ID, r.Name); err != nil {
			return err
		}
	}
	// После вставки с явными id двигаем последовательность вперед.
	if _, err := tx.Exec(ctx, `SELECT setval('user_roles_id_seq', (SELECT MAX(id) FROM user_roles))`); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
