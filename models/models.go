package models

import (
	"strings"
	"time"
)

// ProductType identifies the chemical a tank dispenses.
type ProductType string

const (
	ProductFoam ProductType = "FOAM"
	ProductTW   ProductType = "TW"
	ProductECSR ProductType = "ECSR"
	ProductConc ProductType = "CONC"
	ProductGel  ProductType = "GEL"
)

// TankConfiguration binds a physical dispensing tank to a site and device.
// Rows come from the tank_configurations table and are read-only here.
type TankConfiguration struct {
	ID                int64       `json:"id"`
	SiteRef           string      `json:"site_ref"`
	SiteName          string      `json:"site_name"`
	DeviceRef         string      `json:"device_ref"`
	DeviceSerial      string      `json:"device_serial"`
	ProductType       ProductType `json:"product_type"`
	CalibrationRate   float64     `json:"calibration_rate"` // litres per 60s of dispense time
	MaxCapacityLitres float64     `json:"max_capacity_litres"`
	Active            bool        `json:"active"`
}

// RefillEvent is a delivery of product to a tank, as reported by the
// Elora API. Dates arrive in several raw formats and are kept as the raw
// string until parsed.
type RefillEvent struct {
	SiteRef        string   `json:"site_ref"`
	SiteName       string   `json:"site_name"`
	CustomerRef    string   `json:"customer_ref"`
	CustomerName   string   `json:"customer_name"`
	ProductName    string   `json:"product_name"`
	Status         string   `json:"status"`
	StatusID       int      `json:"status_id"`
	Date           string   `json:"date"`
	NewTotalLitres *float64 `json:"new_total_litres,omitempty"`
}

// ScanEvent is a single RFID-triggered wash/dispense event.
type ScanEvent struct {
	VehicleRef      string    `json:"vehicle_ref"`
	RFID            string    `json:"rfid"`
	SiteRef         string    `json:"site_ref"`
	SiteName        string    `json:"site_name"`
	CustomerRef     string    `json:"customer_ref"`
	CustomerName    string    `json:"customer_name"`
	DeviceRef       string    `json:"device_ref"`
	DeviceSerial    string    `json:"device_serial"`
	ComputerName    string    `json:"computer_name"`
	CreatedAt       time.Time `json:"created_at"`
	WashTimeSeconds float64   `json:"wash_time_seconds"`
	StatusLabel     string    `json:"status_label"`
}

// IsBillable reports whether the scan is eligible for cost and
// consumption accounting: status success or exceeded, and not an
// auto-triggered wash. Auto scans count toward neither tank consumption
// nor billing.
func (s ScanEvent) IsBillable() bool {
	switch strings.ToLower(strings.TrimSpace(s.StatusLabel)) {
	case "success", "exceeded":
	default:
		return false
	}
	return strings.ToLower(strings.TrimSpace(s.RFID)) != "auto"
}

// Vehicle carries the per-vehicle configured wash time used to build the
// billing entitlement map.
type Vehicle struct {
	Ref             string  `json:"ref"`
	RFID            string  `json:"rfid"`
	Rego            string  `json:"rego"`
	CustomerRef     string  `json:"customer_ref"`
	SiteRef         string  `json:"site_ref"`
	WashTimeSeconds float64 `json:"wash_time_seconds"`
}

// Site is a minimal site record used for name/ref matching.
type Site struct {
	Ref          string `json:"ref"`
	Name         string `json:"name"`
	CustomerRef  string `json:"customer_ref"`
	CustomerName string `json:"customer_name"`
}

// Device is a minimal device record used for serial matching.
type Device struct {
	Ref          string `json:"ref"`
	Serial       string `json:"serial"`
	ComputerName string `json:"computer_name"`
	SiteRef      string `json:"site_ref"`
}

// PriceRow is one row of the products reference table.
type PriceRow struct {
	Name       string `json:"name"`
	PriceCents int    `json:"price_cents"`
	Status     string `json:"status"`
}

// IsChemical reports whether the row is a chemical product eligible for
// per-litre pricing. Rows outside the 50c-2000c band are hardware,
// subscriptions or data errors.
func (p PriceRow) IsChemical() bool {
	return p.Status == "active" && p.PriceCents >= 50 && p.PriceCents <= 2000
}

// TankLevelResult is the computed level state for one tank. Err is set
// when the tank could not be computed; the other fields are then zero.
type TankLevelResult struct {
	TankID              int64       `json:"tank_id"`
	SiteRef             string      `json:"site_ref"`
	SiteName            string      `json:"site_name"`
	ProductType         ProductType `json:"product_type"`
	CurrentLitres       float64     `json:"current_litres"`
	PercentageFull      *float64    `json:"percentage_full,omitempty"`
	DaysSinceRefill     int         `json:"days_since_refill"`
	AvgDailyConsumption float64     `json:"avg_daily_consumption"`
	DaysToEmpty         *float64    `json:"days_to_empty,omitempty"`
	Err                 string      `json:"error,omitempty"`
}

// ReportData is the aggregated fleet report payload consumed by the email
// and SMS templates. Computed fresh per request, never persisted.
type ReportData struct {
	FleetSize        int     `json:"fleet_size"`
	ActiveSites      int     `json:"active_sites"`
	TotalWashes      int     `json:"total_washes"`
	TotalProgramCost float64 `json:"total_program_cost"`
	AvgCostPerTruck  float64 `json:"avg_cost_per_truck"`
	AvgCostPerWash   float64 `json:"avg_cost_per_wash"`
	ComplianceRate   int     `json:"compliance_rate"`
}
