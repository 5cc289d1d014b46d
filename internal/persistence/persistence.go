package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/servoctl/servoctl/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketAxisTuning        = "axisTuning"
	BucketSensorCalibration = "sensorCalibration"
)

// AxisTuning is the persisted part of an axis control loop
// configuration, so that runtime changes survive a restart.
type AxisTuning struct {
	P        float64 `json:"p"`
	I        float64 `json:"i"`
	D        float64 `json:"d"`
	Setpoint float64 `json:"setpoint"`
}

type Persistence interface {
	Init() error

	SaveAxisTuning(axisId string, tuning AxisTuning) (err error)
	LoadAxisTuning(axisId string) (AxisTuning, error)
	DeleteAxisTuning(axisId string) (err error)

	SaveSensorCalibration(sensorId string, offset float64) (err error)
	LoadSensorCalibration(sensorId string) (float64, error)
	DeleteSensorCalibration(sensorId string) (err error)
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// SaveAxisTuning saves the given tuning of an axis to persistence
func (p persistence) SaveAxisTuning(axisId string, tuning AxisTuning) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(tuning)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketAxisTuning))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		err = b.Put([]byte(axisId), data)
		return err
	})
}

// LoadAxisTuning loads the tuning of an axis from persistence
func (p persistence) LoadAxisTuning(axisId string) (AxisTuning, error) {
	db, err := p.openPersistence()
	if err != nil {
		return AxisTuning{}, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var tuning AxisTuning
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketAxisTuning))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(axisId))
		if v == nil {
			return os.ErrNotExist
		}
		return json.Unmarshal(v, &tuning)
	})
	return tuning, err
}

// DeleteAxisTuning deletes the tuning of an axis from persistence
func (p persistence) DeleteAxisTuning(axisId string) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketAxisTuning))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(axisId))
	})
}

// SaveSensorCalibration saves the calibration offset of a sensor to persistence
func (p persistence) SaveSensorCalibration(sensorId string, offset float64) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(offset)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketSensorCalibration))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		err = b.Put([]byte(sensorId), data)
		return err
	})
}

// LoadSensorCalibration loads the calibration offset of a sensor from persistence
func (p persistence) LoadSensorCalibration(sensorId string) (float64, error) {
	db, err := p.openPersistence()
	if err != nil {
		return 0, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var offset float64
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSensorCalibration))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(sensorId))
		if v == nil {
			return os.ErrNotExist
		}
		return json.Unmarshal(v, &offset)
	})
	return offset, err
}

// DeleteSensorCalibration deletes the calibration offset of a sensor from persistence
func (p persistence) DeleteSensorCalibration(sensorId string) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSensorCalibration))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(sensorId))
	})
}
