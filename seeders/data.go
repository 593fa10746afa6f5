package seeders

// Наполнение справочников по умолчанию. Статусы и роли обязательны:
// на статус «Списан» завязано списание, на роли — проверки доступа.

var statusesData = []string{
	"В эксплуатации",
	"На складе",
	"На ремонте",
	"Зарезервирован",
	"Списан",
}

// Идентификаторы ролей фиксированы: 1 — администратор, 2 — менеджер,
// 3 — пользователь. Проверки доступа сравнивают именно их.
var rolesData = []struct {
	ID   uint64
	Name string
}{
	{1, "Администратор"},
	{2, "Менеджер"},
	{3, "Пользователь"},
}

var categoriesData = []string{
	"Компьютеры",
	"Ноутбуки",
	"Мониторы",
	"Принтеры и МФУ",
	"Сетевое оборудование",
	"Мебель",
	"Телефония",
}

var locationsData = []string{
	"Главный офис",
	"Склад",
	"Серверная",
	"Филиал №1",
}

var departmentsData = []string{
	"ИТ-отдел",
	"Бухгалтерия",
	"Отдел кадров",
	"Администрация",
}

var positionsData = []string{
	"Системный администратор",
	"Бухгалтер",
	"Менеджер по персоналу",
	"Директор",
	"Специалист",
}

var manufacturersData = []string{
	"Dell",
	"HP",
	"Lenovo",
	"Samsung",
	"Cisco",
}
