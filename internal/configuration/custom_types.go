package configuration

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// gainScheduleHookFunc returns a mapstructure decode hook that allows the
// pid block of an axis to be written as a compact "p,i,d" string instead
// of a full block, e.g.:
//
//	pid: "1.0,0.05,0"
func gainScheduleHookFunc() mapstructure.DecodeHookFuncType {
	pidType := reflect.TypeOf(PidConfig{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != pidType {
			return data, nil
		}

		compact, ok := data.(string)
		if !ok {
			return data, nil
		}

		parts := strings.Split(compact, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("expected \"p,i,d\", got %q", compact)
		}

		gains := make([]float64, len(parts))
		for idx, part := range parts {
			value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, fmt.Errorf("cannot parse gain %q: %w", part, err)
			}
			gains[idx] = value
		}

		return PidConfig{
			P: gains[0],
			I: gains[1],
			D: gains[2],
		}, nil
	}
}
