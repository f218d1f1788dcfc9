package tanklevel

import (
	"strings"

	"elora/models"
)

// brandMarker appears in most product names shipped by the supplier, so it
// acts as a generic keyword for the foam and concrete-safe families.
const brandMarker = "ELORA"

type productRule struct {
	product  models.ProductType
	keywords []string
}

// productRules maps each tank product type to the keyword set accepted in
// free-text refill product names. Order within a keyword slice does not
// matter; a single hit qualifies the name.
var productRules = []productRule{
	{models.ProductFoam, []string{"FOAM", brandMarker}},
	{models.ProductTW, []string{"TRUCK WASH", "ETW", "TW-"}},
	{models.ProductECSR, []string{"ECSR", "CONCRETE SAFE", "CONC", brandMarker}},
	{models.ProductConc, []string{"ECSR", "CONCRETE SAFE", "CONC", brandMarker}},
	{models.ProductGel, []string{"GEL"}},
}

// MatchProduct reports whether a free-text product name (from a refill
// record) refers to the given tank product type.
func MatchProduct(productName string, productType models.ProductType) bool {
	name := strings.ToUpper(strings.TrimSpace(productName))
	if name == "" {
		return false
	}
	for _, rule := range productRules {
		if rule.product != productType {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return true
			}
		}
	}
	return false
}

// refillStatusQualifies accepts Delivered/Confirmed refills. StatusID 2
// and 3 are the numeric encodings of the same two states in older export
// rows.
func refillStatusQualifies(r models.RefillEvent) bool {
	switch strings.ToUpper(strings.TrimSpace(r.Status)) {
	case "DELIVERED", "CONFIRMED":
		return true
	}
	return r.StatusID == 2 || r.StatusID == 3
}

// refillMatchesSite checks the refill against the tank's site by reference
// equality first (site ref or customer ref), then falls back to a name
// suffix/substring comparison. Refill exports frequently carry the customer
// account ref where the API uses a site ref, hence the cross-check.
func refillMatchesSite(r models.RefillEvent, tank models.TankConfiguration) bool {
	if r.SiteRef != "" && r.SiteRef == tank.SiteRef {
		return true
	}
	if r.CustomerRef != "" && r.CustomerRef == tank.SiteRef {
		return true
	}
	return nameMatches(r.SiteName, tank.SiteName) || nameMatches(r.CustomerName, tank.SiteName)
}

// scanMatchesSite checks a scan against the tank's site by ref or name,
// with a customer cross-check when the scan carries one.
func scanMatchesSite(s models.ScanEvent, tank models.TankConfiguration) bool {
	if s.SiteRef != "" && s.SiteRef == tank.SiteRef {
		return true
	}
	if nameMatches(s.SiteName, tank.SiteName) {
		return true
	}
	return s.CustomerRef != "" && s.CustomerRef == tank.SiteRef
}

// scanMatchesDevice checks the scan's device identity against the tank's
// bound device across the three identifying fields the API may populate.
// Any single match suffices.
func scanMatchesDevice(s models.ScanEvent, tank models.TankConfiguration) bool {
	for _, candidate := range []string{s.DeviceRef, s.DeviceSerial, s.ComputerName} {
		if candidate == "" {
			continue
		}
		if candidate == tank.DeviceRef || candidate == tank.DeviceSerial {
			return true
		}
	}
	return false
}

// nameMatches compares two site/customer display names, tolerating the
// "<customer> - <site>" composite form some feeds use: a match is a suffix
// or substring hit in either direction, case-insensitive.
func nameMatches(a, b string) bool {
	ua := strings.ToUpper(strings.TrimSpace(a))
	ub := strings.ToUpper(strings.TrimSpace(b))
	if ua == "" || ub == "" {
		return false
	}
	if ua == ub {
		return true
	}
	return strings.HasSuffix(ua, ub) || strings.HasSuffix(ub, ua) ||
		strings.Contains(ua, ub) || strings.Contains(ub, ua)
}
