// Package registry resolves the short codes used throughout the
// transparency platform: bidding areas, fuel (PSR) types, process types,
// and imbalance price categories.
//
// All tables are static and immutable. Lookups that fail return a typed
// *models.InvalidParameterError rather than passing the raw code through,
// so a typo fails before any network call is made.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"entsogo/internal/models"
)

// Area is the canonical form of a resolved bidding area.
type Area struct {
	ISO  string // short identifier, e.g. "FR" or "DE_LU"
	EIC  string // area code sent on the wire, e.g. "10YFR-RTE------C"
	Name string // display name, e.g. "France"
	Slug string // lowercase identifier for machine-readable output
}

// Reverse indexes, built once at init.
var (
	eicToISO      = make(map[string]string, len(areaCodes))
	nameToISO     = make(map[string]string, len(countryNames))
	psrNameToCode = make(map[string]string, len(psrTypes))
)

func init() {
	for iso, eic := range areaCodes {
		eicToISO[eic] = iso
	}
	for iso, name := range countryNames {
		nameToISO[strings.ToLower(name)] = iso
	}
	for code, name := range psrTypes {
		psrNameToCode[strings.ToLower(name)] = code
	}
}

// ResolveArea resolves an area identifier given as an ISO code ("FR"),
// an EIC code ("10YFR-RTE------C"), or a display name ("France").
func ResolveArea(identifier string) (Area, error) {
	raw := strings.TrimSpace(identifier)
	key := strings.ReplaceAll(strings.ToUpper(raw), " ", "_")

	if eic, ok := areaCodes[key]; ok {
		return area(key, eic), nil
	}
	if iso, ok := eicToISO[raw]; ok {
		return area(iso, raw), nil
	}
	if iso, ok := nameToISO[strings.ToLower(raw)]; ok {
		return area(iso, areaCodes[iso]), nil
	}

	return Area{}, &models.InvalidParameterError{
		Msg: fmt.Sprintf("unknown area %q (known: %s)", identifier, knownAreas()),
	}
}

func area(iso, eic string) Area {
	return Area{
		ISO:  iso,
		EIC:  eic,
		Name: countryNames[iso],
		Slug: strings.ToLower(iso),
	}
}

// AreaName returns the display name for an identifier, falling back to
// the identifier itself when it happens to be unknown. Used for labels
// only; validation goes through ResolveArea.
func AreaName(identifier string) string {
	if a, err := ResolveArea(identifier); err == nil {
		return a.Name
	}
	return identifier
}

// ResolvePSR resolves a fuel-type identifier given as a code ("B16") or a
// name ("Solar") to its PSR code.
func ResolvePSR(identifier string) (string, error) {
	raw := strings.TrimSpace(identifier)
	if _, ok := psrTypes[strings.ToUpper(raw)]; ok {
		return strings.ToUpper(raw), nil
	}
	if code, ok := psrNameToCode[strings.ToLower(raw)]; ok {
		return code, nil
	}
	return "", &models.InvalidParameterError{
		Msg: fmt.Sprintf("unknown PSR type %q (known codes: %s)", identifier, knownPSRCodes()),
	}
}

// PSRName returns the fuel name for a PSR code, or the code itself when
// unknown. The parser preserves codes verbatim; only enrichment uses this.
func PSRName(code string) string {
	if name, ok := psrTypes[code]; ok {
		return name
	}
	return code
}

// CategoryName returns the display name for an imbalance price category
// code, or the code itself when unknown.
func CategoryName(code string) string {
	if name, ok := priceCategories[code]; ok {
		return name
	}
	return code
}

// ProcessType resolves a friendly process name ("realised", "day_ahead")
// to its code.
func ProcessType(name string) (string, error) {
	if code, ok := processTypes[name]; ok {
		return code, nil
	}
	return "", &models.InvalidParameterError{Msg: fmt.Sprintf("unknown process type %q", name)}
}

func knownAreas() string {
	keys := make([]string, 0, len(areaCodes))
	for k := range areaCodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func knownPSRCodes() string {
	keys := make([]string, 0, len(psrTypes))
	for k := range psrTypes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
