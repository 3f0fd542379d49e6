package models

import (
	"time"

	"gorm.io/datatypes"
)

const DataProductSpectroscopy = "spectroscopy"

// DataProduct is a file attached to a target. (target_id, data) is unique so
// re-running an ingest never attaches the same file twice.
type DataProduct struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	TargetID    int64          `gorm:"not null;uniqueIndex:uniq_target_data" json:"target_id"`
	Data        string         `gorm:"type:text;not null;uniqueIndex:uniq_target_data" json:"data"`
	ProductType string         `gorm:"type:varchar(50);not null" json:"product_type"`
	Metadata    datatypes.JSON `json:"metadata"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DataProduct) TableName() string {
	return "data_products"
}
