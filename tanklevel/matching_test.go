package tanklevel

import (
	"testing"

	"elora/models"
)

func TestMatchProduct(t *testing.T) {
	testCases := []struct {
		name        string
		productName string
		productType models.ProductType
		want        bool
	}{
		{"foam keyword", "Heavy Duty FOAM 1000L", models.ProductFoam, true},
		{"foam via brand marker", "Elora Premium Blend", models.ProductFoam, true},
		{"truck wash full phrase", "TRUCK WASH Concentrate", models.ProductTW, true},
		{"truck wash ETW code", "ETW-200 Drum", models.ProductTW, true},
		{"truck wash TW- prefix", "TW-500", models.ProductTW, true},
		{"tw does not match foam name", "Heavy Duty FOAM", models.ProductTW, false},
		{"ecsr keyword", "ECSR 15% IBC", models.ProductECSR, true},
		{"ecsr concrete safe", "Concrete Safe Remover", models.ProductECSR, true},
		{"conc keyword", "CONC Acid Replacement", models.ProductConc, true},
		{"gel keyword", "Wheel GEL 20L", models.ProductGel, true},
		{"gel does not match ecsr name", "ECSR 15%", models.ProductGel, false},
		{"empty name", "", models.ProductFoam, false},
		{"case insensitive", "truck wash drum", models.ProductTW, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchProduct(tc.productName, tc.productType); got != tc.want {
				t.Errorf("MatchProduct(%q, %s) = %v, want %v", tc.productName, tc.productType, got, tc.want)
			}
		})
	}
}

func TestRefillMatchesSite(t *testing.T) {
	tank := models.TankConfiguration{SiteRef: "SITE-42", SiteName: "Gunlake Concrete - Prestons"}

	testCases := []struct {
		name   string
		refill models.RefillEvent
		want   bool
	}{
		{"site ref equality", models.RefillEvent{SiteRef: "SITE-42"}, true},
		{"customer ref equality", models.RefillEvent{CustomerRef: "SITE-42"}, true},
		{"site name suffix", models.RefillEvent{SiteName: "Prestons"}, true},
		{"customer name substring", models.RefillEvent{CustomerName: "Gunlake Concrete"}, true},
		{"no match", models.RefillEvent{SiteRef: "SITE-99", SiteName: "Marulan"}, false},
		{"empty refill", models.RefillEvent{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := refillMatchesSite(tc.refill, tank); got != tc.want {
				t.Errorf("refillMatchesSite(%+v) = %v, want %v", tc.refill, got, tc.want)
			}
		})
	}
}

func TestScanMatchesDevice(t *testing.T) {
	tank := models.TankConfiguration{DeviceRef: "DEV-1", DeviceSerial: "EL-100"}

	testCases := []struct {
		name string
		scan models.ScanEvent
		want bool
	}{
		{"device ref", models.ScanEvent{DeviceRef: "DEV-1"}, true},
		{"device serial", models.ScanEvent{DeviceSerial: "EL-100"}, true},
		{"computer name carries serial", models.ScanEvent{ComputerName: "EL-100"}, true},
		{"computer name carries ref", models.ScanEvent{ComputerName: "DEV-1"}, true},
		{"wrong device", models.ScanEvent{DeviceRef: "DEV-2", DeviceSerial: "EL-200"}, false},
		{"all fields empty", models.ScanEvent{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := scanMatchesDevice(tc.scan, tank); got != tc.want {
				t.Errorf("scanMatchesDevice(%+v) = %v, want %v", tc.scan, got, tc.want)
			}
		})
	}
}

func TestRefillStatusQualifies(t *testing.T) {
	testCases := []struct {
		name   string
		refill models.RefillEvent
		want   bool
	}{
		{"delivered", models.RefillEvent{Status: "Delivered"}, true},
		{"confirmed lower case", models.RefillEvent{Status: "confirmed"}, true},
		{"status id 2", models.RefillEvent{StatusID: 2}, true},
		{"status id 3", models.RefillEvent{StatusID: 3}, true},
		{"pending", models.RefillEvent{Status: "Pending", StatusID: 1}, false},
		{"cancelled", models.RefillEvent{Status: "Cancelled"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := refillStatusQualifies(tc.refill); got != tc.want {
				t.Errorf("refillStatusQualifies(%+v) = %v, want %v", tc.refill, got, tc.want)
			}
		})
	}
}
