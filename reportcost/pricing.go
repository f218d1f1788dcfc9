package reportcost

import (
	"strings"

	"github.com/shopspring/decimal"

	"elora/models"
)

// PricingRule is one row of the state default table: the calibration rate
// (litres per 60s) and price per litre used when nothing site-specific is
// on record.
type PricingRule struct {
	CalibrationRate float64
	PricePerLitre   decimal.Decimal
}

// PricingConfig is the injected pricing reference data for the cost
// resolver. Tests substitute alternate regimes; production wiring uses
// DefaultPricingConfig.
type PricingConfig struct {
	// StateDefaults keys are AU state codes: NSW, VIC, QLD.
	StateDefaults map[string]PricingRule

	// GunlakeOverride applies to any GUNLAKE customer regardless of state.
	GunlakeOverride PricingRule

	// BoralQLDOverride applies to BORAL customers resolved to QLD.
	BoralQLDOverride PricingRule

	// SiteStates maps site refs and uppercase site names to state codes.
	SiteStates map[string]string

	// QLDSiteNames is the curated list of site names known to be in
	// Queensland but absent from SiteStates.
	QLDSiteNames []string
}

// brandKeywords are the customer brands with negotiated chemical pricing.
// Order matters: the first keyword contained in the customer name wins.
var brandKeywords = []string{"BORAL", "GUNLAKE", "HOLCIM", "HEIDELBERG"}

// DefaultPricingConfig returns the production pricing tables.
func DefaultPricingConfig() *PricingConfig {
	return &PricingConfig{
		StateDefaults: map[string]PricingRule{
			"NSW": {CalibrationRate: 5.0, PricePerLitre: decimal.NewFromFloat(4.29)},
			"VIC": {CalibrationRate: 5.0, PricePerLitre: decimal.NewFromFloat(4.29)},
			"QLD": {CalibrationRate: 4.5, PricePerLitre: decimal.NewFromFloat(4.95)},
		},
		GunlakeOverride:  PricingRule{CalibrationRate: 6.0, PricePerLitre: decimal.NewFromFloat(3.85)},
		BoralQLDOverride: PricingRule{CalibrationRate: 4.5, PricePerLitre: decimal.NewFromFloat(4.50)},
		SiteStates: map[string]string{
			"PRESTONS":    "NSW",
			"MARULAN":     "NSW",
			"SOMERTON":    "VIC",
			"LAVERTON":    "VIC",
			"PINKENBA":    "QLD",
			"NARANGBA":    "QLD",
			"WEST END":    "QLD",
			"TOWNSVILLE":  "QLD",
			"ROCKHAMPTON": "QLD",
		},
		QLDSiteNames: []string{
			"NARANGBA", "PINKENBA", "WEST END", "NORTHGATE", "GEEBUNG",
			"BEENLEIGH", "CABOOLTURE", "TOOWOOMBA",
		},
	}
}

// InferState derives the AU state code for a scan's site. Resolution order:
// static site lookup, customer heuristic, curated QLD site list, generic
// substring checks, then NSW as the default.
func (p *PricingConfig) InferState(siteRef, siteName, customerName string) string {
	site := strings.ToUpper(strings.TrimSpace(siteName))
	customer := strings.ToUpper(strings.TrimSpace(customerName))

	if state, ok := p.SiteStates[siteRef]; ok {
		return state
	}
	if state, ok := p.SiteStates[site]; ok {
		return state
	}

	if strings.Contains(customer, "BORAL") && strings.Contains(site, "QLD") {
		return "QLD"
	}

	for _, name := range p.QLDSiteNames {
		if site != "" && strings.Contains(site, name) {
			return "QLD"
		}
	}

	switch {
	case strings.Contains(site, "QLD"), strings.Contains(site, "BRISBANE"), strings.Contains(site, "GOLD COAST"):
		return "QLD"
	case strings.Contains(site, "VIC"), strings.Contains(site, "MELBOURNE"):
		return "VIC"
	case strings.Contains(site, "NSW"), strings.Contains(site, "SYDNEY"):
		return "NSW"
	}

	return "NSW"
}

// stateRule returns the default rule for a state, applying the customer
// overrides. GUNLAKE wins in any state; BORAL gets its negotiated QLD rate.
func (p *PricingConfig) stateRule(state, customerName string) PricingRule {
	customer := strings.ToUpper(customerName)
	if strings.Contains(customer, "GUNLAKE") {
		return p.GunlakeOverride
	}
	if strings.Contains(customer, "BORAL") && state == "QLD" {
		return p.BoralQLDOverride
	}
	if rule, ok := p.StateDefaults[state]; ok {
		return rule
	}
	return p.StateDefaults["NSW"]
}

// matchBrand returns the negotiated-pricing brand keyword contained in the
// customer name, or "" when the customer has none.
func matchBrand(customerName string) string {
	customer := strings.ToUpper(customerName)
	for _, brand := range brandKeywords {
		if strings.Contains(customer, brand) {
			return brand
		}
	}
	return ""
}

// productMatchesAnyBrand reports whether a product name carries any of the
// negotiated brand keywords. Used to keep branded rows out of the generic
// ECSR fallback.
func productMatchesAnyBrand(productName string) bool {
	name := strings.ToUpper(productName)
	for _, brand := range brandKeywords {
		if strings.Contains(name, brand) {
			return true
		}
	}
	return false
}

// ResolvePricePerLitre walks the price fallback chain: a branded chemical
// row for the scan's customer, then a generic ECSR chemical, then the state
// default table.
func (p *PricingConfig) ResolvePricePerLitre(products []models.PriceRow, state, customerName string) decimal.Decimal {
	if brand := matchBrand(customerName); brand != "" {
		for _, row := range products {
			if row.IsChemical() && strings.Contains(strings.ToUpper(row.Name), brand) {
				return centsToDollars(row.PriceCents)
			}
		}
	}
	for _, row := range products {
		if row.IsChemical() && strings.Contains(strings.ToUpper(row.Name), "ECSR") && !productMatchesAnyBrand(row.Name) {
			return centsToDollars(row.PriceCents)
		}
	}
	return p.stateRule(state, customerName).PricePerLitre
}

func centsToDollars(cents int) decimal.Decimal {
	return decimal.New(int64(cents), -2)
}
