package forecast

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// aggregator reduces the non-missing values of a window. It is never called
// with an empty slice.
type aggregator func(values []float64) float64

var aggregators = map[string]aggregator{
	"mean": func(x []float64) float64 { return stat.Mean(x, nil) },
	"sum":  floats.Sum,
	"min":  floats.Min,
	"max":  floats.Max,
	"std": func(x []float64) float64 {
		if len(x) < 2 {
			return math.NaN()
		}
		return stat.StdDev(x, nil)
	},
	"var": func(x []float64) float64 {
		if len(x) < 2 {
			return math.NaN()
		}
		return stat.Variance(x, nil)
	},
	"median": median,
	"count":  func(x []float64) float64 { return float64(len(x)) },
}

// aggregate applies the named function, handling windows with no values.
func aggregate(function string, values []float64) float64 {
	if len(values) == 0 {
		switch function {
		case "count", "sum":
			return 0
		default:
			return math.NaN()
		}
	}
	return aggregators[function](values)
}

func median(x []float64) float64 {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
