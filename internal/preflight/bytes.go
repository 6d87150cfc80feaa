package preflight

import (
	"fmt"
	"math"
)

var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// PrettyBytes renders n with decimal (1000-based) units: whole values print
// without a fraction, others with one decimal place.
func PrettyBytes(n uint64) string {
	v := float64(n)
	i := 0
	for v >= 1000 && i < len(units)-1 {
		v /= 1000
		i++
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d %s", uint64(v), units[i])
	}
	return fmt.Sprintf("%.1f %s", v, units[i])
}
