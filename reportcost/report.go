package reportcost

import (
	"math"
	"strings"

	"github.com/apex/log"
	"github.com/shopspring/decimal"

	"elora/models"
)

type fleetKey struct {
	customer string
	site     string
	vehicle  string
}

// ComputeReportData aggregates billable scans into the fleet report
// payload. Scans flagged ConfigMissing contribute nothing to cost totals.
// With zero billable scans the fleet and site counts fall back to the raw
// vehicle table so a report is never entirely empty.
func ComputeReportData(scans []models.ScanEvent, vehicles []models.Vehicle, resolver *Resolver) models.ReportData {
	var (
		totalCost     = decimal.Zero
		billableCount int
		successCount  int
		pricedCount   int
		skippedCount  int
		fleet         = map[fleetKey]struct{}{}
		sites         = map[string]struct{}{}
	)

	for _, s := range scans {
		if !IsBillableScan(s) {
			continue
		}
		billableCount++
		if strings.ToLower(strings.TrimSpace(s.StatusLabel)) == "success" {
			successCount++
		}
		fleet[fleetKey{customer: s.CustomerRef, site: s.SiteRef, vehicle: s.VehicleRef}] = struct{}{}
		if s.SiteRef != "" {
			sites[s.SiteRef] = struct{}{}
		}

		cost := resolver.ResolveScanCost(s)
		if cost.ConfigMissing {
			skippedCount++
			continue
		}
		pricedCount++
		totalCost = totalCost.Add(cost.Cost)
	}

	if skippedCount > 0 {
		log.Warnf("report: %d billable scans skipped, vehicle missing from wash-time configuration", skippedCount)
	}

	data := models.ReportData{
		TotalWashes: billableCount,
	}

	if billableCount > 0 {
		data.FleetSize = len(fleet)
		data.ActiveSites = len(sites)
		data.ComplianceRate = int(math.Round(float64(successCount) / float64(billableCount) * 100))
	} else {
		data.FleetSize = len(vehicles)
		data.ActiveSites = countVehicleSites(vehicles)
	}

	data.TotalProgramCost = roundMoney(totalCost)
	if data.FleetSize > 0 {
		data.AvgCostPerTruck = roundMoney(totalCost.Div(decimal.NewFromInt(int64(data.FleetSize))))
	}
	if pricedCount > 0 {
		data.AvgCostPerWash = roundMoney(totalCost.Div(decimal.NewFromInt(int64(pricedCount))))
	}
	return data
}

func countVehicleSites(vehicles []models.Vehicle) int {
	sites := map[string]struct{}{}
	for _, v := range vehicles {
		if v.SiteRef != "" {
			sites[v.SiteRef] = struct{}{}
		}
	}
	return len(sites)
}

// roundMoney rounds to 2dp at the reporting boundary only; intermediate
// cost math stays exact to avoid compounding rounding error.
func roundMoney(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
