package config

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ConnectDB opens the MySQL store. TranslateError is on so unique-key
// violations surface as gorm.ErrDuplicatedKey and can be mapped to Conflict
// at the service boundary.
func ConnectDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
}
