package data

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Reading is one water level report from the field device. Plain reports
// carry LevelCM; encrypted reports carry only the hex ciphertext and the
// algorithm the device claims to have used. The server never stores a
// decrypted value for an encrypted reading, so the database holds nothing
// a dashboard key could not unlock.
type Reading struct {
	ID             uint64 `gorm:"primaryKey"`
	LevelCM        *float64
	EncryptedLevel string
	Algorithm      string
	ReceivedAt     time.Time `gorm:"index"`
}

// Encrypted reports whether this reading was submitted as ciphertext.
func (r *Reading) Encrypted() bool {
	return r.EncryptedLevel != ""
}

// CreateReading persists a Reading, stamping ReceivedAt if unset.
func CreateReading(db *gorm.DB, reading *Reading) error {
	if reading.ReceivedAt.IsZero() {
		reading.ReceivedAt = time.Now()
	}
	return db.Create(reading).Error
}

// LatestReading returns the most recently received reading, or nil if no
// readings have been stored yet.
func LatestReading(db *gorm.DB) (*Reading, error) {
	var reading Reading
	err := db.Order("received_at DESC, id DESC").First(&reading).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &reading, nil
}

// RecentReadings returns up to limit readings, newest first.
func RecentReadings(db *gorm.DB, limit int) ([]Reading, error) {
	var readings []Reading
	err := db.Order("received_at DESC, id DESC").Limit(limit).Find(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}
