package tanklevel

import (
	"math"
	"sort"
	"time"

	"github.com/apex/log"

	"elora/models"
)

const (
	// Wash runs of 15 seconds or less are treated as line-priming noise and
	// contribute zero consumption. Fixed business rule, not per-tank config.
	minBillableWashSeconds = 15.0

	// The daily-usage rate behind "days to empty" is computed over a
	// trailing window from now, not over the whole since-refill span.
	usageWindowDays = 7
)

// ComputeTankLevel reconstructs one tank's level from its refill and scan
// event streams. It never fails hard: tanks that cannot be computed come
// back with Err set so the rest of the fleet keeps processing.
func ComputeTankLevel(tank models.TankConfiguration, refills []models.RefillEvent, scans []models.ScanEvent, now time.Time) models.TankLevelResult {
	result := models.TankLevelResult{
		TankID:      tank.ID,
		SiteRef:     tank.SiteRef,
		SiteName:    tank.SiteName,
		ProductType: tank.ProductType,
	}

	if tank.DeviceRef == "" && tank.DeviceSerial == "" {
		result.Err = "Tank has no bound device"
		return result
	}
	if tank.MaxCapacityLitres <= 0 || tank.CalibrationRate <= 0 {
		result.Err = "Tank configuration missing capacity or calibration rate"
		return result
	}

	lastRefill, refillDate, ok := selectLastRefill(tank, refills)
	if !ok {
		result.Err = "No Delivered/Confirmed refill for this site+product"
		return result
	}

	startLevel := tank.MaxCapacityLitres
	if lastRefill.NewTotalLitres != nil {
		startLevel = *lastRefill.NewTotalLitres
	}

	since := scansSinceRefill(tank, scans, refillDate)

	totalConsumed := 0.0
	for _, s := range since {
		totalConsumed += ScanConsumption(s, tank.CalibrationRate)
	}

	currentLitres := clamp(startLevel-totalConsumed, 0, tank.MaxCapacityLitres)

	result.CurrentLitres = math.Round(currentLitres)
	if tank.MaxCapacityLitres > 0 {
		pct := round1(currentLitres / tank.MaxCapacityLitres * 100)
		result.PercentageFull = &pct
	}
	result.DaysSinceRefill = int(now.Sub(refillDate).Hours() / 24)

	rate := trailingDailyConsumption(since, tank.CalibrationRate, now)
	result.AvgDailyConsumption = round1(rate)
	if rate > 0 {
		days := round1(currentLitres / rate)
		result.DaysToEmpty = &days
	}

	log.Debugf("tank %d (%s %s): start %.1fL, consumed %.1fL over %d scans, current %.1fL",
		tank.ID, tank.SiteRef, tank.ProductType, startLevel, totalConsumed, len(since), currentLitres)
	return result
}

// selectLastRefill picks the most recent qualifying refill for the tank's
// site and product. Refills whose date cannot be parsed are skipped
// entirely so a bad date can never win the recency sort.
func selectLastRefill(tank models.TankConfiguration, refills []models.RefillEvent) (models.RefillEvent, time.Time, bool) {
	type dated struct {
		refill models.RefillEvent
		at     time.Time
	}
	var qualifying []dated
	for _, r := range refills {
		if !refillStatusQualifies(r) {
			continue
		}
		if !MatchProduct(r.ProductName, tank.ProductType) {
			continue
		}
		if !refillMatchesSite(r, tank) {
			continue
		}
		parsed := ParseEventDate(r.Date)
		if !parsed.Valid {
			continue
		}
		qualifying = append(qualifying, dated{refill: r, at: parsed.Time})
	}
	if len(qualifying) == 0 {
		return models.RefillEvent{}, time.Time{}, false
	}
	sort.Slice(qualifying, func(i, j int) bool {
		return qualifying[i].at.After(qualifying[j].at)
	})
	return qualifying[0].refill, qualifying[0].at, true
}

// scansSinceRefill keeps billable scans at or after the refill that belong
// to the tank's bound device and site. Auto-triggered and failed scans
// dispense nothing, so they are excluded from consumption just as they are
// from billing.
func scansSinceRefill(tank models.TankConfiguration, scans []models.ScanEvent, refillDate time.Time) []models.ScanEvent {
	var kept []models.ScanEvent
	for _, s := range scans {
		if !s.IsBillable() {
			continue
		}
		if s.CreatedAt.Before(refillDate) {
			continue
		}
		if !scanMatchesDevice(s, tank) {
			continue
		}
		if !scanMatchesSite(s, tank) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// ScanConsumption converts one scan's wash duration into litres dispensed
// at the given calibration rate (litres per 60s). Durations at or below
// the noise threshold consume nothing.
func ScanConsumption(s models.ScanEvent, calibrationRate float64) float64 {
	if s.WashTimeSeconds <= minBillableWashSeconds {
		return 0
	}
	return s.WashTimeSeconds / 60 * calibrationRate
}

// trailingDailyConsumption computes litres/day over the trailing usage
// window. The divisor is the span between the oldest in-window scan and
// now, floored at one day. No in-window scans means a zero rate, which the
// caller reports as an undefined days-to-empty rather than infinity.
func trailingDailyConsumption(scans []models.ScanEvent, calibrationRate float64, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -usageWindowDays)
	var (
		total  float64
		oldest time.Time
		seen   bool
	)
	for _, s := range scans {
		if s.CreatedAt.Before(cutoff) {
			continue
		}
		total += ScanConsumption(s, calibrationRate)
		if !seen || s.CreatedAt.Before(oldest) {
			oldest = s.CreatedAt
			seen = true
		}
	}
	if !seen || total == 0 {
		return 0
	}
	days := now.Sub(oldest).Hours() / 24
	if days < 1 {
		days = 1
	}
	return total / days
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
