package calculator

import "math"

// Sanitize returns a copy of values with NaN and ±Inf replaced by 0.
// Every undefined statistic in the pipeline goes through here.
func Sanitize(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = v
	}
	return out
}

// Mean averages the finite values, skipping NaN. Returns NaN when there are none.
func Mean(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// StdDev is the sample standard deviation (n-1) of the non-NaN values.
// Returns NaN for fewer than two values and exactly 0 when all values are equal.
func StdDev(values []float64) float64 {
	mean := Mean(values)
	if math.IsNaN(mean) {
		return math.NaN()
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	sumSquares, n := 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		diff := v - mean
		sumSquares += diff * diff
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	if lo == hi {
		return 0
	}
	return math.Sqrt(sumSquares / float64(n-1))
}

// Standardize converts values to z-scores over their own history.
// Missing inputs and a zero spread both come out as 0.
func Standardize(values []float64) []float64 {
	mean := Mean(values)
	sd := StdDev(values)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - mean) / sd
	}
	return Sanitize(out)
}

// PctChange returns values[t]/values[t-periods] - 1; the first periods entries are NaN.
func PctChange(values []float64, periods int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < periods {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[i]/values[i-periods] - 1
	}
	return out
}

// Ratio expresses prices as a percentage of the benchmark.
// Dates without a usable benchmark price are NaN.
func Ratio(prices, benchmark []float64) []float64 {
	out := make([]float64, len(prices))
	for i, p := range prices {
		b := benchmark[i]
		if math.IsNaN(b) || b == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = p / b * 100
	}
	return out
}
