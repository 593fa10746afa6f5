package dto

type CreateMovementDTO struct {
	AssetID      uint64 `json:"asset_id" validate:"required"`
	ToLocationID uint64 `json:"to_location_id" validate:"required"`
	Note         string `json:"note,omitempty"`
}
