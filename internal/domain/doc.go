// Package domain models the National Digital Forecast Database (NDFD) grids
// used for Hawaii fire-weather graphics and the decisions made before any map
// is drawn.
//
// # Data Source
//
// NDFD publishes GRIB2 bundles per element on tgftp.nws.noaa.gov, split into a
// short-range file (days 1-3, "VP.001-003") and an extended file (days 4-7,
// "VP.004-007"). The elements used here are:
//
//	maxrh  maximum relative humidity (%), overnight window
//	minrh  minimum relative humidity (%), daytime window
//	maxt   maximum temperature (K)
//	mint   minimum temperature (K)
//
// Depending on issuance time the two files together carry 6 or 7 daily
// periods. The count is reported as a [ForecastLength], never probed.
//
// # Boundary Reference Systems
//
// A reference system is a named combination of vector overlays (states,
// counties, GACC and PSA regions, NWS CWAs, fire weather zones and public
// zones). [ResolveBorders] maps the name to a [BorderStylePlan]. "Custom"
// passes caller toggles through; unrecognised names show no boundaries.
//
// # Units
//
// Relative humidity is displayed in percent. Temperatures arrive in Kelvin and
// are displayed in Fahrenheit. Absolute values use the offset-and-scale
// conversion; period-over-period deltas use the scale-only conversion
// (ΔF = ΔK × 9/5).
package domain
