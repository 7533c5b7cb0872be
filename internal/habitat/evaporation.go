package habitat

import (
	"math"

	"github.com/edwenger/larval-habitat/internal/types"
)

const (
	gasConstant    = 8.31446 // ideal gas constant (L·kPa·K⁻¹·mol⁻¹)
	waterMolarMass = 0.01801 // molar mass of water (kg/mol)
)

// Clausius–Clapeyron coefficients for saturated vapor pressure
const (
	ccExponent  = -5628.1 // (K)
	ccPrefactor = 5.1e11  // (Pa)
)

// EvaporationRate computes a dimensionless evaporation rate from the
// Clausius–Clapeyron calculation of saturated vapor pressure.  The rate
// grows with temperature and falls linearly to zero as relative humidity
// approaches saturation.
func EvaporationRate(w types.WeatherRecord) float64 {
	// Kinetic-theory mass flux factor (s·m⁻¹, up to the prefactor)
	ccFlux := waterMolarMass / (2 * math.Pi * gasConstant)

	// Convert air temperature to Kelvin
	Tk := w.MeanTempC + 273.15

	return math.Exp(ccExponent/Tk) * ccPrefactor * math.Sqrt(ccFlux/Tk) * (1.0 - w.RelHumid)
}
