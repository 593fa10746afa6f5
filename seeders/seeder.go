package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedDictionaries наполняет справочники значениями по умолчанию.
// Повторный запуск безопасен, существующие записи не трогаются.
func SeedDictionaries(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶ Наполнение справочников...")

	if err := seedNames(ctx, db, "asset_statuses", statusesData); err != nil {
		log.Fatalf("❌ Ошибка наполнения статусов: %v", err)
	}
	if err := seedNames(ctx, db, "categories", categoriesData); err != nil {
		log.Fatalf("❌ Ошибка наполнения категорий: %v", err)
	}
	if err := seedNames(ctx, db, "locations", locationsData); err != nil {
		log.Fatalf("❌ Ошибка наполнения локаций: %v", err)
	}
	if err := seedNames(ctx, db, "departments", departmentsData); err != nil {
		log.Fatalf("❌ Ошибка наполнения отделов: %v", err)
	}
	if err := seedNames(ctx, db, "positions", positionsData); err != nil {
		log.Fatalf("❌ Ошибка наполнения должностей: %v", err)
	}
	if err := seedNames(ctx, db, "manufacturers", manufacturersData); err != nil {
		log.Fatalf("❌ Ошибка наполнения производителей: %v", err)
	}

	log.Println("✅ Справочники наполнены")
}

// SeedRolesAndAdmin создает роли с фиксированными идентификаторами
// и первую учетную запись администратора.
func SeedRolesAndAdmin(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶ Настройка ролей и администратора...")

	if err := seedRoles(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения ролей: %v", err)
	}
	if err := seedAdmin(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка создания администратора: %v", err)
	}

	log.Println("✅ Роли и администратор настроены")
}
