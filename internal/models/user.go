package models

import (
	"gorm.io/gorm"
)

// User is a dashboard account. Only the bcrypt digest of the password is stored.
type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"size:256;not null"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
