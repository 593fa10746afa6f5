package dto

// DashboardStatsDTO — агрегат главной страницы: счетчики по статусам
// и распределение по категориям.
type DashboardStatsDTO struct {
	TotalAssets    uint64 `json:"total_assets"`
	ActiveAssets   uint64 `json:"active_assets"`
	InRepairAssets uint64 `json:"in_repair_assets"`
	DisposedAssets uint64 `json:"disposed_assets"`
	AddedLastMonth uint64 `json:"added_last_month"`

	ActivePercent   float64 `json:"active_percent"`
	InRepairPercent float64 `json:"in_repair_percent"`
	DisposedPercent float64 `json:"disposed_percent"`

	Categories []CategoryCountDTO `json:"categories"`
}

type CategoryCountDTO struct {
	CategoryID   uint64 `json:"category_id"`
	CategoryName string `json:"category_name"`
	AssetCount   uint64 `json:"asset_count"`
}
