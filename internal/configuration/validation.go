package configuration

import (
	"fmt"

	"github.com/looplab/tarjan"
	"github.com/servoctl/servoctl/internal/ui"
	"github.com/servoctl/servoctl/internal/util"
	"golang.org/x/exp/slices"
)

func Validate(configPath string) error {
	return validateConfig(&CurrentConfig, configPath)
}

func validateConfig(config *Configuration, path string) error {
	err := validateSensors(config)
	if err != nil {
		return err
	}
	err = validateMotors(config)
	if err != nil {
		return err
	}
	err = validateAxes(config)
	if err != nil {
		return err
	}
	err = validateNavigation(config)
	if err != nil {
		return err
	}

	if containsCmdBackends(config) {
		if _, err := util.CheckFilePermissionsForExecution(path); err != nil {
			return fmt.Errorf("config file '%s' has invalid permissions: %s", path, err)
		}
	}

	return nil
}

func containsCmdBackends(config *Configuration) bool {
	for _, sensorConfig := range config.Sensors {
		if sensorConfig.Cmd != nil {
			return true
		}
	}
	for _, motorConfig := range config.Motors {
		if motorConfig.Cmd != nil {
			return true
		}
	}

	return false
}

func validateSensors(config *Configuration) error {
	sensorIds := []string{}

	for _, sensorConfig := range config.Sensors {
		if slices.Contains(sensorIds, sensorConfig.ID) {
			return fmt.Errorf("sensor %s: duplicate sensor id", sensorConfig.ID)
		}
		sensorIds = append(sensorIds, sensorConfig.ID)

		subConfigs := 0
		if sensorConfig.File != nil {
			subConfigs++
		}
		if sensorConfig.Cmd != nil {
			subConfigs++
		}
		if sensorConfig.Fused != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("sensor %s: only one sensor type can be used per sensor definition block", sensorConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("sensor %s: sub-configuration for sensor is missing, use one of: file | cmd | fused", sensorConfig.ID)
		}

		if !isSensorConfigInUse(sensorConfig, config) {
			ui.Warning("Unused sensor configuration: %s", sensorConfig.ID)
		}

		if sensorConfig.Fused != nil {
			supported := []string{FusedFunctionAverage, FusedFunctionMinimum, FusedFunctionMaximum}
			if !slices.Contains(supported, sensorConfig.Fused.Function) {
				return fmt.Errorf("sensor %s: unsupported fusion function '%s', use one of: %v", sensorConfig.ID, sensorConfig.Fused.Function, supported)
			}
			if len(sensorConfig.Fused.Sensors) <= 0 {
				return fmt.Errorf("sensor %s: fused sensor references no sensors", sensorConfig.ID)
			}
			for _, id := range sensorConfig.Fused.Sensors {
				if !sensorIdExists(id, config) {
					return fmt.Errorf("sensor %s: references unknown sensor '%s'", sensorConfig.ID, id)
				}
			}
		}
	}

	return validateNoSensorLoops(config)
}

// validateNoSensorLoops ensures that fused sensors do not
// reference each other in a cycle.
func validateNoSensorLoops(config *Configuration) error {
	graph := make(map[interface{}][]interface{})

	for _, sensorConfig := range config.Sensors {
		var children []interface{}
		if sensorConfig.Fused != nil {
			for _, id := range sensorConfig.Fused.Sensors {
				children = append(children, id)
			}
		}
		graph[sensorConfig.ID] = children
	}

	output := tarjan.Connections(graph)
	for _, component := range output {
		if len(component) > 1 {
			return fmt.Errorf("you have created a sensor dependency cycle: %v", component)
		}
	}

	return nil
}

func sensorIdExists(id string, config *Configuration) bool {
	for _, sensorConfig := range config.Sensors {
		if sensorConfig.ID == id {
			return true
		}
	}
	return false
}

func motorIdExists(id string, config *Configuration) bool {
	for _, motorConfig := range config.Motors {
		if motorConfig.ID == id {
			return true
		}
	}
	return false
}

func isSensorConfigInUse(sensorConfig SensorConfig, config *Configuration) bool {
	for _, axisConfig := range config.Axes {
		if axisConfig.Sensor == sensorConfig.ID {
			return true
		}
	}
	for _, other := range config.Sensors {
		if other.Fused != nil && slices.Contains(other.Fused.Sensors, sensorConfig.ID) {
			return true
		}
	}
	if config.Navigation != nil {
		if config.Navigation.Encoder == sensorConfig.ID || config.Navigation.Gyro == sensorConfig.ID {
			return true
		}
	}

	return false
}

func validateMotors(config *Configuration) error {
	motorIds := []string{}

	for _, motorConfig := range config.Motors {
		if slices.Contains(motorIds, motorConfig.ID) {
			return fmt.Errorf("motor %s: duplicate motor id", motorConfig.ID)
		}
		motorIds = append(motorIds, motorConfig.ID)

		subConfigs := 0
		if motorConfig.File != nil {
			subConfigs++
		}
		if motorConfig.Cmd != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("motor %s: only one motor type can be used per motor definition block", motorConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("motor %s: sub-configuration for motor is missing, use one of: file | cmd", motorConfig.ID)
		}
	}

	return nil
}

func validateAxes(config *Configuration) error {
	axisIds := []string{}

	for _, axisConfig := range config.Axes {
		if slices.Contains(axisIds, axisConfig.ID) {
			return fmt.Errorf("axis %s: duplicate axis id", axisConfig.ID)
		}
		axisIds = append(axisIds, axisConfig.ID)

		if !sensorIdExists(axisConfig.Sensor, config) {
			return fmt.Errorf("axis %s: references unknown sensor '%s'", axisConfig.ID, axisConfig.Sensor)
		}
		if !motorIdExists(axisConfig.Motor, config) {
			return fmt.Errorf("axis %s: references unknown motor '%s'", axisConfig.ID, axisConfig.Motor)
		}

		err := validatePid(axisConfig.ID, axisConfig.PID)
		if err != nil {
			return err
		}
	}

	return nil
}

func validatePid(owner string, pid PidConfig) error {
	if pid.InputMin > pid.InputMax {
		return fmt.Errorf("%s: input range lower bound %v is greater than upper bound %v", owner, pid.InputMin, pid.InputMax)
	}
	if pid.OutputMin > pid.OutputMax {
		return fmt.Errorf("%s: output range lower bound %v is greater than upper bound %v", owner, pid.OutputMin, pid.OutputMax)
	}
	if pid.Tolerance < 0 {
		return fmt.Errorf("%s: tolerance must not be negative", owner)
	}
	if pid.Period < 0 {
		return fmt.Errorf("%s: period must not be negative", owner)
	}

	return nil
}

func validateNavigation(config *Configuration) error {
	navConfig := config.Navigation
	if navConfig == nil {
		return nil
	}

	for _, id := range []string{navConfig.Encoder, navConfig.Gyro} {
		if !sensorIdExists(id, config) {
			return fmt.Errorf("navigation: references unknown sensor '%s'", id)
		}
	}
	for _, id := range []string{navConfig.LeftMotor, navConfig.RightMotor} {
		if !motorIdExists(id, config) {
			return fmt.Errorf("navigation: references unknown motor '%s'", id)
		}
	}

	err := validatePid("navigation distance", navConfig.Distance)
	if err != nil {
		return err
	}
	return validatePid("navigation heading", navConfig.Heading)
}
