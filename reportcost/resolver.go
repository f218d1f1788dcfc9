package reportcost

import (
	"strings"

	"github.com/shopspring/decimal"

	"elora/models"
)

// defaultWashSeconds is assumed when a scan carries no usable duration and
// no entitlement data exists for its vehicle.
const defaultWashSeconds = 60.0

// IsBillableScan reports whether a scan is eligible for cost and
// consumption accounting. The predicate lives on models.ScanEvent so the
// tank-level reconciler applies the identical gate.
func IsBillableScan(s models.ScanEvent) bool {
	return s.IsBillable()
}

// Entitlements maps vehicle refs and RFIDs to the configured wash duration
// (seconds) used for billing instead of the scan-reported duration.
type Entitlements map[string]float64

// BuildEntitlements indexes vehicles' configured wash times by ref and
// RFID. Vehicles without a configured time are omitted so their scans get
// flagged rather than silently billed at a guessed duration.
func BuildEntitlements(vehicles []models.Vehicle) Entitlements {
	ent := Entitlements{}
	for _, v := range vehicles {
		if v.WashTimeSeconds <= 0 {
			continue
		}
		if v.Ref != "" {
			ent[v.Ref] = v.WashTimeSeconds
		}
		if v.RFID != "" {
			ent[v.RFID] = v.WashTimeSeconds
		}
	}
	return ent
}

// SiteCalibrations carries the site-specific calibration rates learned from
// tank configurations, keyed by device serial and by lowercased site name.
type SiteCalibrations struct {
	byDeviceSerial map[string]float64
	bySiteName     map[string]float64
}

// BuildSiteCalibrations dedups the tank configurations and indexes their
// calibration rates for the resolver's first two lookup tiers.
func BuildSiteCalibrations(configs []models.TankConfiguration) *SiteCalibrations {
	sc := &SiteCalibrations{
		byDeviceSerial: map[string]float64{},
		bySiteName:     map[string]float64{},
	}
	for _, cfg := range DedupTankConfigs(configs) {
		if cfg.CalibrationRate <= 0 {
			continue
		}
		if cfg.DeviceSerial != "" {
			sc.byDeviceSerial[cfg.DeviceSerial] = cfg.CalibrationRate
		}
		if cfg.SiteName != "" {
			sc.bySiteName[strings.ToLower(strings.TrimSpace(cfg.SiteName))] = cfg.CalibrationRate
		}
	}
	return sc
}

// DedupTankConfigs keeps at most one effective configuration per device.
// When duplicates exist the CONC entry wins over any other product type.
// That tie-break reproduces long-standing production behavior; see
// DESIGN.md before changing it.
func DedupTankConfigs(configs []models.TankConfiguration) []models.TankConfiguration {
	byDevice := map[string]models.TankConfiguration{}
	var order []string
	for _, cfg := range configs {
		key := cfg.DeviceSerial
		if key == "" {
			key = cfg.DeviceRef
		}
		if key == "" {
			continue
		}
		existing, ok := byDevice[key]
		if !ok {
			byDevice[key] = cfg
			order = append(order, key)
			continue
		}
		if shouldReplace(existing, cfg) {
			byDevice[key] = cfg
		}
	}
	out := make([]models.TankConfiguration, 0, len(order))
	for _, key := range order {
		out = append(out, byDevice[key])
	}
	return out
}

func shouldReplace(existing, candidate models.TankConfiguration) bool {
	return candidate.ProductType == models.ProductConc && existing.ProductType != models.ProductConc
}

// ScanCost is the priced outcome for one billable scan. When ConfigMissing
// is set the scan must be excluded from all cost totals.
type ScanCost struct {
	LitresUsed      decimal.Decimal
	Cost            decimal.Decimal
	PricePerLitre   decimal.Decimal
	CalibrationRate float64
	WashTimeSeconds float64
	ConfiguredTime  bool
	ConfigMissing   bool
}

// Resolver prices billable scans against the injected reference datasets.
type Resolver struct {
	Pricing      *PricingConfig
	Entitlements Entitlements
	Calibrations *SiteCalibrations
	Products     []models.PriceRow
}

// NewResolver wires a resolver from raw reference data.
func NewResolver(pricing *PricingConfig, vehicles []models.Vehicle, configs []models.TankConfiguration, products []models.PriceRow) *Resolver {
	return &Resolver{
		Pricing:      pricing,
		Entitlements: BuildEntitlements(vehicles),
		Calibrations: BuildSiteCalibrations(configs),
		Products:     products,
	}
}

// ResolveScanCost computes the billable litres and dollar cost for one
// scan. The caller is expected to have applied IsBillableScan already.
// Monetary values are exact decimals; rounding happens only at final
// report aggregation.
func (r *Resolver) ResolveScanCost(s models.ScanEvent) ScanCost {
	washSeconds, configured, missing := r.resolveWashSeconds(s)
	if missing {
		return ScanCost{ConfigMissing: true}
	}

	state := r.Pricing.InferState(s.SiteRef, s.SiteName, s.CustomerName)
	rate := r.resolveCalibrationRate(s, state)
	price := r.Pricing.ResolvePricePerLitre(r.Products, state, s.CustomerName)

	litres := decimal.NewFromFloat(washSeconds).Div(decimal.NewFromInt(60)).Mul(decimal.NewFromFloat(rate))
	return ScanCost{
		LitresUsed:      litres,
		Cost:            litres.Mul(price),
		PricePerLitre:   price,
		CalibrationRate: rate,
		WashTimeSeconds: washSeconds,
		ConfiguredTime:  configured,
	}
}

// resolveWashSeconds applies the entitlement policy: with entitlement data
// on hand, a vehicle missing from it is flagged ConfigMissing and excluded
// rather than billed at a guessed duration. Without entitlement data the
// scan's own recorded time is used, defaulting to 60s.
func (r *Resolver) resolveWashSeconds(s models.ScanEvent) (seconds float64, configured, missing bool) {
	if len(r.Entitlements) > 0 {
		if t, ok := r.Entitlements[s.VehicleRef]; ok {
			return t, true, false
		}
		if t, ok := r.Entitlements[s.RFID]; ok {
			return t, true, false
		}
		return 0, false, true
	}
	if s.WashTimeSeconds > 0 {
		return s.WashTimeSeconds, false, false
	}
	return defaultWashSeconds, false, false
}

// resolveCalibrationRate walks the calibration fallback chain: device
// serial, site name, then the state default table.
func (r *Resolver) resolveCalibrationRate(s models.ScanEvent, state string) float64 {
	if r.Calibrations != nil {
		for _, serial := range []string{s.DeviceSerial, s.DeviceRef} {
			if serial == "" {
				continue
			}
			if rate, ok := r.Calibrations.byDeviceSerial[serial]; ok {
				return rate
			}
		}
		if rate, ok := r.Calibrations.bySiteName[strings.ToLower(strings.TrimSpace(s.SiteName))]; ok {
			return rate
		}
	}
	return r.Pricing.stateRule(state, s.CustomerName).CalibrationRate
}
