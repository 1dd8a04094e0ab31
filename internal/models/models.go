package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a back-office account
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	DisplayName  string    `json:"displayName" gorm:"type:varchar(255);not null"`
	Admin        bool      `json:"admin" gorm:"not null;default:false"`

	Cats []Cat `json:"-" gorm:"foreignKey:CreatedByCatteryID;constraint:OnDelete:CASCADE"`
}

// Cat is a cat registered by a cattery account
type Cat struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	CreatedAt            time.Time `json:"created_at" gorm:"autoCreateTime"`
	Name                 string    `json:"name" gorm:"type:varchar(255);not null"`
	Surname              string    `json:"surname,omitempty"`
	IsFemale             bool      `json:"isFemale" gorm:"not null;default:false"`
	PedigreeNumber       string    `json:"pedigreeNumber,omitempty"`
	IdentificationNumber string    `json:"identificationNumber,omitempty" gorm:"index"`
	IsDeceased           bool      `json:"isDeceased" gorm:"not null;default:false"`
	IsNeutered           bool      `json:"isNeutered" gorm:"not null;default:false"`
	Notes                *string   `json:"notes,omitempty" gorm:"type:text"`
	CreatedByCatteryID   uint      `json:"createdByCatteryId" gorm:"not null;index"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Cat{}, &ServerSettings{})
}

// ServerSettings is a singleton row holding state generated on first start
type ServerSettings struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	JWTSecret string    `json:"-" gorm:"type:varchar(64);not null"` // 64 hex chars, used when JWT_SECRET is unset
}
