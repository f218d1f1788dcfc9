package reportcost

import (
	"testing"

	"elora/models"
)

func TestComputeReportData(t *testing.T) {
	pricing := DefaultPricingConfig()
	products := []models.PriceRow{{Name: "ECSR 15% Generic", PriceCents: 400, Status: "active"}}
	configs := []models.TankConfiguration{
		{DeviceSerial: "EL-100", SiteName: "Prestons", ProductType: models.ProductConc, CalibrationRate: 5.0},
	}

	scan := func(vehicle, site, status string) models.ScanEvent {
		s := billableScan()
		s.VehicleRef = vehicle
		s.SiteRef = site
		s.StatusLabel = status
		return s
	}

	scans := []models.ScanEvent{
		scan("TRUCK-1", "SITE-A", "success"),
		scan("TRUCK-1", "SITE-A", "success"),
		scan("TRUCK-2", "SITE-A", "exceeded"),
		scan("TRUCK-3", "SITE-B", "success"),
		scan("TRUCK-4", "SITE-B", "auto"),   // not billable
		scan("TRUCK-5", "SITE-C", "failed"), // not billable
	}

	r := NewResolver(pricing, nil, configs, products)
	data := ComputeReportData(scans, nil, r)

	if data.TotalWashes != 4 {
		t.Errorf("TotalWashes = %d, want 4 (auto and failed excluded)", data.TotalWashes)
	}
	if data.FleetSize != 3 {
		t.Errorf("FleetSize = %d, want 3 distinct trucks", data.FleetSize)
	}
	if data.ActiveSites != 2 {
		t.Errorf("ActiveSites = %d, want 2", data.ActiveSites)
	}
	// 3 of 4 billable scans are "success": 75%.
	if data.ComplianceRate != 75 {
		t.Errorf("ComplianceRate = %d, want 75", data.ComplianceRate)
	}
	// Each scan: 90s at 5L/60s = 7.5L at $4.00 = $30; 4 scans = $120.
	if data.TotalProgramCost != 120.0 {
		t.Errorf("TotalProgramCost = %v, want 120.0", data.TotalProgramCost)
	}
	if data.AvgCostPerTruck != 40.0 {
		t.Errorf("AvgCostPerTruck = %v, want 40.0", data.AvgCostPerTruck)
	}
	if data.AvgCostPerWash != 30.0 {
		t.Errorf("AvgCostPerWash = %v, want 30.0", data.AvgCostPerWash)
	}
}

func TestComputeReportDataConfigMissingExclusion(t *testing.T) {
	pricing := DefaultPricingConfig()
	// Entitlement data exists, but only for TRUCK-1.
	vehicles := []models.Vehicle{{Ref: "TRUCK-1", SiteRef: "SITE-A", WashTimeSeconds: 60}}
	products := []models.PriceRow{{Name: "ECSR 15% Generic", PriceCents: 400, Status: "active"}}
	configs := []models.TankConfiguration{
		{DeviceSerial: "EL-100", SiteName: "Prestons", ProductType: models.ProductConc, CalibrationRate: 5.0},
	}
	r := NewResolver(pricing, vehicles, configs, products)

	entitled := billableScan()

	unentitled := billableScan()
	unentitled.VehicleRef = "TRUCK-9"
	unentitled.RFID = "card-9"

	data := ComputeReportData([]models.ScanEvent{entitled, unentitled}, vehicles, r)

	// Both scans count as washes, only the entitled one is priced:
	// 60s at 5L/60s = 5L at $4.00 = $20.
	if data.TotalWashes != 2 {
		t.Errorf("TotalWashes = %d, want 2", data.TotalWashes)
	}
	if data.TotalProgramCost != 20.0 {
		t.Errorf("TotalProgramCost = %v, want 20.0 (unentitled scan excluded)", data.TotalProgramCost)
	}
}

func TestComputeReportDataZeroBillableFallback(t *testing.T) {
	pricing := DefaultPricingConfig()
	vehicles := []models.Vehicle{
		{Ref: "TRUCK-1", SiteRef: "SITE-A"},
		{Ref: "TRUCK-2", SiteRef: "SITE-B"},
		{Ref: "TRUCK-3", SiteRef: "SITE-B"},
	}
	r := NewResolver(pricing, nil, nil, nil)

	auto := billableScan()
	auto.RFID = "auto"

	data := ComputeReportData([]models.ScanEvent{auto}, vehicles, r)

	if data.TotalWashes != 0 {
		t.Errorf("TotalWashes = %d, want 0", data.TotalWashes)
	}
	if data.FleetSize != 3 {
		t.Errorf("FleetSize = %d, want the raw vehicle count 3", data.FleetSize)
	}
	if data.ActiveSites != 2 {
		t.Errorf("ActiveSites = %d, want 2 from the vehicle table", data.ActiveSites)
	}
	if data.TotalProgramCost != 0 {
		t.Errorf("TotalProgramCost = %v, want 0", data.TotalProgramCost)
	}
}
