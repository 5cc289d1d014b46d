package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestCoerce(t *testing.T) {
	// GIVEN
	expectedInputOutput := map[float64]float64{
		-10.0: 0.0,
		0.0:   0.0,
		0.5:   0.5,
		1.0:   1.0,
		10.0:  1.0,
	}

	for input, expected := range expectedInputOutput {
		// WHEN
		result := Coerce(input, 0, 1)

		// THEN
		assert.Equal(t, expected, result)
	}
}

func TestAvg(t *testing.T) {
	// GIVEN
	values := []float64{1.0, 2.0, 3.0}

	// WHEN
	result := Avg(values)

	// THEN
	assert.Equal(t, 2.0, result)
}

func TestMinMax(t *testing.T) {
	// GIVEN
	values := []float64{3.0, 1.0, 2.0}

	// WHEN
	min := Min(values)
	max := Max(values)

	// THEN
	assert.Equal(t, 1.0, min)
	assert.Equal(t, 3.0, max)
}

func TestUpdateSimpleMovingAvg(t *testing.T) {
	// GIVEN
	oldAvg := 1.0

	// WHEN
	result := UpdateSimpleMovingAvg(oldAvg, 2, 3.0)

	// THEN
	assert.Equal(t, 2.0, result)
}
