package models

import (
	"time"

	"gorm.io/datatypes"
)

// Spectrum is an observed spectrum from the external tides_spec table.
type Spectrum struct {
	QMostID        int64          `gorm:"column:qmost_id;primaryKey;autoIncrement:false" json:"qmost_id"`
	CandidateID    int64          `gorm:"column:tides_id;not null;index" json:"tides_id"`
	SNType         *string        `gorm:"column:sn_type;type:varchar(50)" json:"sn_type"`
	ObsDate        *time.Time     `gorm:"column:obs_date;index" json:"obs_date"`
	ObsMJD         *float64       `gorm:"column:obs_mjd" json:"obs_mjd"`
	SNR            *float64       `gorm:"column:snr" json:"snr"`
	Seeing         *float64       `json:"seeing"`
	SkyBrightness  *float64       `json:"sky_brightness"`
	FilePath       *string        `gorm:"column:filepath;type:text" json:"filepath"`
	Version        *int           `json:"version"`
	AdditionalInfo datatypes.JSON `json:"additional_info"`
}

func (Spectrum) TableName() string {
	return "tides_spec"
}
