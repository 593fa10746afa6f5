package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Asset struct {
	ID           uint64      `json:"id"`
	AssetCode    string      `json:"asset_code"`
	AssetName    string      `json:"asset_name"`
	Description  null.String `json:"description"`
	Model        null.String `json:"model"`
	SerialNumber null.String `json:"serial_number"`

	CategoryID            uint64      `json:"category_id"`
	StatusID              uint64      `json:"status_id"`
	LocationID            uint64      `json:"location_id"`
	ManufacturerID        null.Uint64 `json:"manufacturer_id"`
	ResponsibleEmployeeID null.Uint64 `json:"responsible_employee_id"`

	PurchaseDate  null.Time    `json:"purchase_date"`
	PurchasePrice null.Float64 `json:"purchase_price"`

	IsActive         bool        `json:"is_active"`
	CreatedDate      time.Time   `json:"created_date"`
	CreatedByUserID  uint64      `json:"created_by_user_id"`
	ModifiedDate     null.Time   `json:"modified_date"`
	ModifiedByUserID null.Uint64 `json:"modified_by_user_id"`
}

// AssetFullInfo — строка читающего представления asset_full_info:
// актив плюс имена справочников и ФИО ответственного.
type AssetFullInfo struct {
	Asset

	CategoryName     string      `json:"category_name"`
	StatusName       string      `json:"status_name"`
	LocationName     string      `json:"location_name"`
	ManufacturerName null.String `json:"manufacturer_name"`
	ResponsibleName  null.String `json:"responsible_name"`
}
