// Package embedded provides the research datasets compiled into the binary:
// - data/benchmarks.json - per-decile, per-geography benchmark ranges
// - data/hedonic_coefficients.json - versioned hedonic model coefficients
// - data/rent_thresholds.json - decile rent threshold tables
// - data/regulatory.json - jurisdiction regulatory reference data
//
// These seed the reference database on first start; externally supplied
// rows may overwrite them later.
package embedded

import (
	"embed"
)

//go:embed data
var Files embed.FS

// ReadData returns the contents of a file under data/.
func ReadData(name string) ([]byte, error) {
	return Files.ReadFile("data/" + name)
}
