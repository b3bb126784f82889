package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/tirta-iot/tirta/internal/data"
)

func setUpDatabase(t *testing.T) *gorm.DB {
	testDBFile := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(testDBFile))
	if err != nil {
		t.Fatalf("error initializing test database: %s", err)
	}
	if err = db.AutoMigrate(&data.Account{}); err != nil {
		t.Fatalf("error auto migrating db: %s", err)
	}
	return db
}

func TestCreateAccount(t *testing.T) {
	db := setUpDatabase(t)

	account, err := CreateAccount(db, "operator", "hunter2")
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	if account.Username != "operator" {
		t.Errorf("expected account username = operator, got = %s", account.Username)
	}
	if account.Password == "hunter2" {
		t.Error("expected password to be stored hashed, got plaintext")
	}
	if !CheckPassword(account.Password, "hunter2") {
		t.Error("expected stored hash to verify against the original password")
	}
}

func TestCreateAccount_MissingCredentials(t *testing.T) {
	db := setUpDatabase(t)

	if _, err := CreateAccount(db, "", "password"); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("CreateAccount() with empty username error = %v, want ErrMissingCredentials", err)
	}
	if _, err := CreateAccount(db, "user", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("CreateAccount() with empty password error = %v, want ErrMissingCredentials", err)
	}
}

func TestVerifyAccount(t *testing.T) {
	db := setUpDatabase(t)
	if _, err := CreateAccount(db, "operator", "hunter2"); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	tests := map[string]struct {
		username  string
		password  string
		wantedErr error
	}{
		"happy_path":     {username: "operator", password: "hunter2"},
		"wrong_password": {username: "operator", password: "wrong", wantedErr: ErrInvalidCredentials},
		"unknown_user":   {username: "ghost", password: "hunter2", wantedErr: ErrInvalidCredentials},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			account, err := VerifyAccount(db, tt.username, tt.password)
			if !errors.Is(err, tt.wantedErr) {
				t.Fatalf("VerifyAccount() error = %v, want %v", err, tt.wantedErr)
			}
			if tt.wantedErr == nil && account.Username != tt.username {
				t.Errorf("VerifyAccount() returned account %q, want %q", account.Username, tt.username)
			}
		})
	}
}

func TestVerifyAccount_Inactive(t *testing.T) {
	db := setUpDatabase(t)
	account, err := CreateAccount(db, "operator", "hunter2")
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	if err := db.Model(account).Update("active", false).Error; err != nil {
		t.Fatalf("deactivating account: %v", err)
	}

	if _, err := VerifyAccount(db, "operator", "hunter2"); !errors.Is(err, ErrAccountInactive) {
		t.Errorf("VerifyAccount() error = %v, want ErrAccountInactive", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := NewToken("testsecret", "operator", time.Hour)
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}

	username, err := ParseToken("testsecret", token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if username != "operator" {
		t.Errorf("ParseToken() = %q, want operator", username)
	}
}

func TestParseToken_Invalid(t *testing.T) {
	valid, err := NewToken("testsecret", "operator", time.Hour)
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}
	expired, err := NewToken("testsecret", "operator", -time.Hour)
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}

	tests := map[string]struct {
		secret string
		token  string
	}{
		"wrong_secret": {secret: "othersecret", token: valid},
		"expired":      {secret: "testsecret", token: expired},
		"garbage":      {secret: "testsecret", token: "not.a.token"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseToken(tt.secret, tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ParseToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
