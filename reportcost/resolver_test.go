package reportcost

import (
	"testing"

	"elora/models"
)

func billableScan() models.ScanEvent {
	return models.ScanEvent{
		VehicleRef:      "TRUCK-1",
		RFID:            "card-1",
		SiteRef:         "SITE-42",
		SiteName:        "Prestons",
		CustomerName:    "Acme Haulage",
		DeviceSerial:    "EL-100",
		WashTimeSeconds: 90,
		StatusLabel:     "success",
	}
}

func TestIsBillableScan(t *testing.T) {
	testCases := []struct {
		name   string
		status string
		rfid   string
		want   bool
	}{
		{"success", "success", "card-1", true},
		{"exceeded", "exceeded", "card-1", true},
		{"auto status", "auto", "card-1", false},
		{"failed status", "failed", "card-1", false},
		{"empty status", "", "card-1", false},
		{"auto rfid", "success", "auto", false},
		{"auto rfid mixed case", "exceeded", "AUTO", false},
		{"status case insensitive", "SUCCESS", "card-1", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := billableScan()
			s.StatusLabel = tc.status
			s.RFID = tc.rfid
			if got := IsBillableScan(s); got != tc.want {
				t.Errorf("IsBillableScan(status=%q, rfid=%q) = %v, want %v", tc.status, tc.rfid, got, tc.want)
			}
		})
	}
}

func TestResolveWashSecondsEntitlementPolicy(t *testing.T) {
	pricing := DefaultPricingConfig()

	t.Run("entitled vehicle uses configured time", func(t *testing.T) {
		vehicles := []models.Vehicle{{Ref: "TRUCK-1", RFID: "card-1", WashTimeSeconds: 120}}
		r := NewResolver(pricing, vehicles, nil, nil)
		cost := r.ResolveScanCost(billableScan())
		if cost.ConfigMissing {
			t.Fatal("entitled vehicle should not be ConfigMissing")
		}
		if cost.WashTimeSeconds != 120 {
			t.Errorf("WashTimeSeconds = %v, want the configured 120", cost.WashTimeSeconds)
		}
		if !cost.ConfiguredTime {
			t.Error("ConfiguredTime should be set")
		}
	})

	t.Run("entitlements present but vehicle missing", func(t *testing.T) {
		vehicles := []models.Vehicle{{Ref: "TRUCK-2", WashTimeSeconds: 120}}
		r := NewResolver(pricing, vehicles, nil, nil)
		cost := r.ResolveScanCost(billableScan())
		if !cost.ConfigMissing {
			t.Fatal("vehicle without entitlement must be ConfigMissing, not guessed")
		}
		if !cost.Cost.IsZero() {
			t.Errorf("ConfigMissing scan must cost nothing, got %s", cost.Cost)
		}
	})

	t.Run("no entitlement data uses scan time", func(t *testing.T) {
		r := NewResolver(pricing, nil, nil, nil)
		cost := r.ResolveScanCost(billableScan())
		if cost.ConfigMissing {
			t.Fatal("without entitlement data nothing is ConfigMissing")
		}
		if cost.WashTimeSeconds != 90 {
			t.Errorf("WashTimeSeconds = %v, want the scan's 90", cost.WashTimeSeconds)
		}
	})

	t.Run("missing scan time defaults to 60s", func(t *testing.T) {
		r := NewResolver(pricing, nil, nil, nil)
		s := billableScan()
		s.WashTimeSeconds = 0
		cost := r.ResolveScanCost(s)
		if cost.WashTimeSeconds != 60 {
			t.Errorf("WashTimeSeconds = %v, want the 60s default", cost.WashTimeSeconds)
		}
	})
}

func TestResolveCalibrationRateChain(t *testing.T) {
	pricing := DefaultPricingConfig()
	configs := []models.TankConfiguration{
		{DeviceSerial: "EL-100", SiteName: "Prestons", ProductType: models.ProductConc, CalibrationRate: 7.0},
		{DeviceSerial: "EL-200", SiteName: "Marulan", ProductType: models.ProductConc, CalibrationRate: 6.5},
	}
	r := NewResolver(pricing, nil, configs, nil)

	t.Run("device serial wins", func(t *testing.T) {
		cost := r.ResolveScanCost(billableScan())
		if cost.CalibrationRate != 7.0 {
			t.Errorf("CalibrationRate = %v, want 7.0 from the device serial map", cost.CalibrationRate)
		}
	})

	t.Run("site name fallback", func(t *testing.T) {
		s := billableScan()
		s.DeviceSerial = "UNKNOWN"
		s.SiteName = "MARULAN" // case-insensitive
		cost := r.ResolveScanCost(s)
		if cost.CalibrationRate != 6.5 {
			t.Errorf("CalibrationRate = %v, want 6.5 from the site name map", cost.CalibrationRate)
		}
	})

	t.Run("state default fallback", func(t *testing.T) {
		s := billableScan()
		s.DeviceSerial = "UNKNOWN"
		s.SiteName = "Nowhere Special"
		cost := r.ResolveScanCost(s)
		if cost.CalibrationRate != pricing.StateDefaults["NSW"].CalibrationRate {
			t.Errorf("CalibrationRate = %v, want the NSW default", cost.CalibrationRate)
		}
	})
}

func TestCostMonotonicity(t *testing.T) {
	pricing := DefaultPricingConfig()
	r := NewResolver(pricing, nil, nil, nil)

	prev := r.ResolveScanCost(billableScan())
	for _, washSeconds := range []float64{120, 180, 300} {
		s := billableScan()
		s.WashTimeSeconds = washSeconds
		cost := r.ResolveScanCost(s)
		if !cost.LitresUsed.GreaterThan(prev.LitresUsed) {
			t.Errorf("LitresUsed at %vs (%s) not greater than previous (%s)", washSeconds, cost.LitresUsed, prev.LitresUsed)
		}
		if !cost.Cost.GreaterThan(prev.Cost) {
			t.Errorf("Cost at %vs (%s) not greater than previous (%s)", washSeconds, cost.Cost, prev.Cost)
		}
		prev = cost
	}
}

func TestDedupTankConfigsPrefersConc(t *testing.T) {
	configs := []models.TankConfiguration{
		{DeviceSerial: "EL-100", ProductType: models.ProductFoam, CalibrationRate: 4.0},
		{DeviceSerial: "EL-100", ProductType: models.ProductConc, CalibrationRate: 5.0},
		{DeviceSerial: "EL-100", ProductType: models.ProductTW, CalibrationRate: 6.0},
		{DeviceSerial: "EL-200", ProductType: models.ProductGel, CalibrationRate: 3.0},
	}

	deduped := DedupTankConfigs(configs)
	if len(deduped) != 2 {
		t.Fatalf("got %d configs, want 2", len(deduped))
	}

	byKey := map[string]models.TankConfiguration{}
	for _, cfg := range deduped {
		byKey[cfg.DeviceSerial] = cfg
	}
	if byKey["EL-100"].ProductType != models.ProductConc {
		t.Errorf("EL-100 kept %s, want CONC to win the tie-break", byKey["EL-100"].ProductType)
	}
	if byKey["EL-200"].ProductType != models.ProductGel {
		t.Errorf("EL-200 kept %s, want the only entry GEL", byKey["EL-200"].ProductType)
	}
}

func TestResolveScanCostNumbers(t *testing.T) {
	pricing := DefaultPricingConfig()
	configs := []models.TankConfiguration{
		{DeviceSerial: "EL-100", SiteName: "Prestons", ProductType: models.ProductConc, CalibrationRate: 5.0},
	}
	products := []models.PriceRow{{Name: "ECSR 15% Generic", PriceCents: 400, Status: "active"}}
	r := NewResolver(pricing, nil, configs, products)

	// 90s at 5L/60s = 7.5L, at $4.00/L = $30.00.
	cost := r.ResolveScanCost(billableScan())
	if got, _ := cost.LitresUsed.Float64(); got != 7.5 {
		t.Errorf("LitresUsed = %v, want 7.5", got)
	}
	if got, _ := cost.Cost.Float64(); got != 30.0 {
		t.Errorf("Cost = %v, want 30.0", got)
	}
}
