package controller

import (
	"testing"
	"time"

	"github.com/servoctl/servoctl/internal/configuration"
	"github.com/servoctl/servoctl/internal/control_loop"
	"github.com/servoctl/servoctl/internal/persistence"
	"github.com/stretchr/testify/assert"
)

type MockSensor struct {
	ID        string
	MovingAvg float64
}

func (sensor MockSensor) GetId() string {
	return sensor.ID
}

func (sensor MockSensor) GetConfig() configuration.SensorConfig {
	panic("not implemented")
}

func (sensor MockSensor) GetValue() (result float64, err error) {
	return sensor.MovingAvg, nil
}

func (sensor MockSensor) GetMovingAvg() (avg float64) {
	return sensor.MovingAvg
}

func (sensor *MockSensor) SetMovingAvg(avg float64) {
	sensor.MovingAvg = avg
}

type MockMotor struct {
	ID      string
	Output  float64
	Stopped bool
}

func (motor *MockMotor) GetId() string {
	return motor.ID
}

func (motor *MockMotor) GetConfig() configuration.MotorConfig {
	panic("not implemented")
}

func (motor *MockMotor) SetOutput(value float64) (err error) {
	motor.Output = value
	return nil
}

func (motor *MockMotor) GetOutput() (float64, error) {
	return motor.Output, nil
}

func (motor *MockMotor) Stop() (err error) {
	motor.Stopped = true
	motor.Output = 0
	return nil
}

type MockPersistence struct {
	tunings map[string]persistence.AxisTuning
}

func NewMockPersistence() *MockPersistence {
	return &MockPersistence{
		tunings: map[string]persistence.AxisTuning{},
	}
}

func (p *MockPersistence) Init() error { return nil }

func (p *MockPersistence) SaveAxisTuning(axisId string, tuning persistence.AxisTuning) error {
	p.tunings[axisId] = tuning
	return nil
}

func (p *MockPersistence) LoadAxisTuning(axisId string) (persistence.AxisTuning, error) {
	tuning, exists := p.tunings[axisId]
	if !exists {
		return persistence.AxisTuning{}, assert.AnError
	}
	return tuning, nil
}

func (p *MockPersistence) DeleteAxisTuning(axisId string) error {
	delete(p.tunings, axisId)
	return nil
}

func (p *MockPersistence) SaveSensorCalibration(sensorId string, offset float64) error {
	return nil
}

func (p *MockPersistence) LoadSensorCalibration(sensorId string) (float64, error) {
	return 0, assert.AnError
}

func (p *MockPersistence) DeleteSensorCalibration(sensorId string) error {
	return nil
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(control_loop.DefaultPeriod)
	return c.now
}

func createTestController(pid configuration.PidConfig) (*axisController, *MockSensor, *MockMotor) {
	sensor := &MockSensor{ID: "sensor"}
	motor := &MockMotor{ID: "motor"}

	loop, err := NewLoopFromConfig(pid, &stepClock{now: time.Unix(1000000, 0)})
	if err != nil {
		panic(err)
	}
	// prime the tick timestamp so the next compute call sees exactly
	// one nominal period of elapsed time
	loop.Compute(0)

	a := &axisController{
		config: configuration.AxisConfig{
			ID:     "axis",
			Sensor: sensor.ID,
			Motor:  motor.ID,
			PID:    pid,
		},
		sensor:      sensor,
		motor:       motor,
		loop:        loop,
		persistence: NewMockPersistence(),
		tickRate:    control_loop.DefaultPeriod,
	}
	return a, sensor, motor
}

func TestUpdateCorrection(t *testing.T) {
	// GIVEN
	a, sensor, motor := createTestController(configuration.PidConfig{
		P:        1.0,
		Setpoint: 10,
		InputMin: 0,
		InputMax: 100,
	})
	sensor.MovingAvg = 9.5

	// WHEN
	err := a.UpdateCorrection()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 0.5, motor.Output)
}

func TestUpdateCorrectionClampsOutput(t *testing.T) {
	// GIVEN
	a, sensor, motor := createTestController(configuration.PidConfig{
		P:        1.0,
		Setpoint: 100,
		InputMin: 0,
		InputMax: 100,
	})
	sensor.MovingAvg = 0

	// WHEN
	err := a.UpdateCorrection()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 1.0, motor.Output)
}

func TestNewLoopFromConfigInvertedOutputRange(t *testing.T) {
	// GIVEN
	pid := configuration.PidConfig{
		OutputMin: 1.0,
		OutputMax: -1.0,
	}

	// WHEN
	_, err := NewLoopFromConfig(pid, control_loop.SystemClock())

	// THEN
	var rangeErr control_loop.RangeError
	assert.Error(t, err)
	assert.ErrorAs(t, err, &rangeErr)
}

func TestNewLoopFromConfigSetpointClamping(t *testing.T) {
	// GIVEN
	pid := configuration.PidConfig{
		InputMin: 0,
		InputMax: 100,
		Setpoint: 150,
	}

	// WHEN
	loop, err := NewLoopFromConfig(pid, control_loop.SystemClock())

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 100.0, loop.Setpoint())
}

func TestSetSetpointPersistsTuning(t *testing.T) {
	// GIVEN
	a, _, _ := createTestController(configuration.PidConfig{
		P:        1.0,
		InputMin: 0,
		InputMax: 100,
	})
	pers := a.persistence.(*MockPersistence)

	// WHEN
	a.SetSetpoint(42)

	// THEN
	assert.Equal(t, 42.0, a.Snapshot().Setpoint)
	tuning, err := pers.LoadAxisTuning("axis")
	assert.NoError(t, err)
	assert.Equal(t, 42.0, tuning.Setpoint)
	assert.Equal(t, 1.0, tuning.P)
}

func TestSnapshot(t *testing.T) {
	// GIVEN
	a, sensor, _ := createTestController(configuration.PidConfig{
		P:         1.0,
		Setpoint:  50,
		InputMin:  0,
		InputMax:  100,
		Tolerance: 10,
	})
	sensor.MovingAvg = 45

	// WHEN
	err := a.UpdateCorrection()
	status := a.Snapshot()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "axis", status.ID)
	assert.Equal(t, 50.0, status.Setpoint)
	assert.Equal(t, 5.0, status.LastError)
	assert.True(t, status.OnTarget)
}
