package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// AssetMovement — запись истории перемещений. Наличие хотя бы одной
// такой записи блокирует физическое удаление актива.
type AssetMovement struct {
	ID             uint64      `json:"id"`
	AssetID        uint64      `json:"asset_id"`
	FromLocationID null.Uint64 `json:"from_location_id"`
	ToLocationID   uint64      `json:"to_location_id"`
	MovedByUserID  uint64      `json:"moved_by_user_id"`
	MovementDate   time.Time   `json:"movement_date"`
	Note           null.String `json:"note"`
}
