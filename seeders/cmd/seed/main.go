package main

import (
	"flag"
	"log"

	"asset-control/pkg/config"
	"asset-control/pkg/database/postgresql"
	"asset-control/seeders"
)

func main() {
	runDictionaries := flag.Bool("dictionaries", false, "Наполнить справочники (статусы, категории, локации и т.д.)")
	runRoles := flag.Bool("roles", false, "Создать роли и администратора")
	runAll := flag.Bool("all", false, "Запустить все сидеры")
	flag.Parse()

	if !*runDictionaries && !*runRoles && !*runAll {
		log.Println("Не выбран ни один сидер.")
		log.Println("")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры:")
		log.Println("  go run ./seeders/cmd/seed -dictionaries")
		log.Println("  go run ./seeders/cmd/seed -all")
		return
	}

	cfg := config.New()
	log.Println("Используется DSN:", cfg.Postgres.DSN)
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if *runAll || *runDictionaries {
		seeders.SeedDictionaries(dbPool)
	}
	if *runAll || *runRoles {
		// Роли и администратор зависят от таблиц, но не от справочников.
		seeders.SeedRolesAndAdmin(dbPool)
	}

	log.Println("Сидирование завершено.")
}
