// Package units converts volume quantities between milliliters and a fixed
// set of kitchen units. Conversions are pure and never fail: an unrecognized
// unit (including "ml" itself) passes the value through unchanged.
package units

// Milliliters per unit. The constants are rounded and therefore do not
// round-trip exactly for non-ml units; callers that compare converted
// values should use a tolerance.
const (
	mlPerLiter      = 1000
	mlPerFluidOunce = 29.5735
	mlPerCup        = 236.588
	mlPerTeaspoon   = 4.92892
	mlPerTablespoon = 14.7868
)

func factor(unit string) (float64, bool) {
	switch unit {
	case "l":
		return mlPerLiter, true
	case "oz":
		return mlPerFluidOunce, true
	case "cup":
		return mlPerCup, true
	case "tsp":
		return mlPerTeaspoon, true
	case "tbsp":
		return mlPerTablespoon, true
	}
	return 0, false
}

// ToML converts value from the given unit to milliliters.
func ToML(value float64, unit string) float64 {
	if f, ok := factor(unit); ok {
		return value * f
	}
	return value
}

// FromML converts a milliliter value to the target unit.
func FromML(valueML float64, target string) float64 {
	if f, ok := factor(target); ok {
		return valueML / f
	}
	return valueML
}

// IsVolumeUnit reports whether unit is one of the convertible volume units.
func IsVolumeUnit(unit string) bool {
	if unit == "ml" {
		return true
	}
	_, ok := factor(unit)
	return ok
}
