package model

import (
	"time"
)

// DemandRecord is one row of the power consumption fact table. Rows are
// hourly-or-finer grain per supplier; the forecaster aggregates them to
// daily totals.
type DemandRecord struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Date                 time.Time `gorm:"type:date;index:idx_demand_date" json:"date"`
	State                string    `gorm:"size:64;index:idx_demand_state" json:"state"`
	Region               string    `gorm:"size:64;index:idx_demand_region" json:"region"`
	PowerSupplier        string    `gorm:"size:128;index:idx_demand_supplier" json:"power_supplier"`
	ConsumptionMegaUnits float64   `json:"consumption_mega_units"`
}

func (DemandRecord) TableName() string {
	return "power_demand"
}
