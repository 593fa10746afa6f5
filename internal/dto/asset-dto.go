package dto

import (
	"github.com/aarondl/null/v8"
)

// SaveAssetDTO — форма карточки актива. Стоимость приходит сырой строкой
// (как из текстового поля) и разбирается на стороне сервиса.
type SaveAssetDTO struct {
	AssetCode    string `json:"asset_code" validate:"required"`
	AssetName    string `json:"asset_name" validate:"required"`
	Description  string `json:"description,omitempty"`
	Model        string `json:"model,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`

	CategoryID            uint64      `json:"category_id" validate:"required"`
	StatusID              uint64      `json:"status_id" validate:"required"`
	LocationID            uint64      `json:"location_id" validate:"required"`
	ManufacturerID        null.Uint64 `json:"manufacturer_id,omitempty"`
	ResponsibleEmployeeID null.Uint64 `json:"responsible_employee_id,omitempty"`

	PurchaseDate  null.Time `json:"purchase_date,omitempty"`
	PurchasePrice string    `json:"purchase_price,omitempty"`

	// Флажок формы. При политике, выводящей активность из статуса,
	// значение игнорируется.
	IsActive null.Bool `json:"is_active,omitempty"`
}

// UpdateAssetDTO повторяет форму создания без кода: код актива
// неизменяем после создания.
type UpdateAssetDTO struct {
	AssetName    string `json:"asset_name" validate:"required"`
	Description  string `json:"description,omitempty"`
	Model        string `json:"model,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`

	CategoryID            uint64      `json:"category_id" validate:"required"`
	StatusID              uint64      `json:"status_id" validate:"required"`
	LocationID            uint64      `json:"location_id" validate:"required"`
	ManufacturerID        null.Uint64 `json:"manufacturer_id,omitempty"`
	ResponsibleEmployeeID null.Uint64 `json:"responsible_employee_id,omitempty"`

	PurchaseDate  null.Time `json:"purchase_date,omitempty"`
	PurchasePrice string    `json:"purchase_price,omitempty"`

	IsActive null.Bool `json:"is_active,omitempty"`
}

type AssetIDsDTO struct {
	AssetIDs []uint64 `json:"asset_ids" validate:"required,min=1,dive,gt=0"`
}

type SkippedAssetDTO struct {
	AssetID   uint64 `json:"asset_id"`
	AssetName string `json:"asset_name"`
	Reason    string `json:"reason"`
}

// DeleteAssetsResultDTO — итог пакетного удаления: что удалено,
// что пропущено из-за истории перемещений.
type DeleteAssetsResultDTO struct {
	DeletedIDs []uint64          `json:"deleted_ids"`
	Skipped    []SkippedAssetDTO `json:"skipped"`
}
