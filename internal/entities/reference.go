package entities

// Справочники — простые пары id→имя, загружаются целиком
// и сортируются по имени для выпадающих списков.

type Category struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type Location struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type AssetStatus struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type Department struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type Position struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type UserRole struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type Manufacturer struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
