package util

// Coerce returns the given value, limited to the range [min, max].
func Coerce(value float64, min float64, max float64) float64 {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// Avg calculates the average of all values in the given array
func Avg(values []float64) float64 {
	sum := 0.0
	for i := 0; i < len(values); i++ {
		sum += values[i]
	}
	return sum / (float64(len(values)))
}

// Min returns the smallest value in the given slice
func Min(values []float64) float64 {
	result := values[0]
	for _, value := range values {
		if value < result {
			result = value
		}
	}
	return result
}

// Max returns the largest value in the given slice
func Max(values []float64) float64 {
	result := values[0]
	for _, value := range values {
		if value > result {
			result = value
		}
	}
	return result
}

// UpdateSimpleMovingAvg calculates the new moving average, based on an existing average and buffer size
func UpdateSimpleMovingAvg(oldAvg float64, n int, newValue float64) float64 {
	return oldAvg + (1/float64(n))*(newValue-oldAvg)
}
