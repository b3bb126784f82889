package data

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Account contains the login information specific to each dashboard user.
type Account struct {
	ID        uint64 `gorm:"primaryKey"`
	Username  string `gorm:"unique; not null"`
	Password  string `gorm:"not null"`
	CreatedAt time.Time
	Active    bool `gorm:"default:true"`
}

// FindAccountByUsername searches for an account with the specified username,
// returning the *Account instance if found or nil if there is no match.
func FindAccountByUsername(db *gorm.DB, username string) (*Account, error) {
	var account Account
	err := db.Where("username = ?", username).First(&account).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

// CreateAccount persists the Account record to the database.
func CreateAccount(db *gorm.DB, account *Account) error {
	return db.Create(account).Error
}

// ListAccounts returns all accounts ordered by username.
func ListAccounts(db *gorm.DB) ([]Account, error) {
	var accounts []Account
	if err := db.Order("username").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
