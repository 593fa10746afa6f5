package seeders

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"asset-control/pkg/constants"
	"asset-control/pkg/utils"
)

// seedAdmin создает первую учетную запись администратора, если ее нет.
// Логин и пароль берутся из окружения, по умолчанию admin/admin.
func seedAdmin(ctx context.Context, db *pgxpool.Pool) error {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
		log.Println("  ⚠ ADMIN_PASSWORD не задан, используется пароль по умолчанию — смените его после первого входа")
	}

	log.Printf("  - Создание администратора '%s'...", username)
	query := `INSERT INTO users (username, password_hash, role_id, is_active, created_date)
		VALUES ($1, $2, $3, TRUE, now())
		ON CONFLICT (username) DO NOTHING`
	_, err := db.Exec(ctx, query, username, utils.HashPassword(password), constants.RoleAdministrator)
	return err
}
