package config

import (
	dbutils "github.com/tendant/db-utils/db"
)

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `env:"WISHLIST_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"WISHLIST_PG_PORT" env-default:"5432"`
	Database string `env:"WISHLIST_PG_DATABASE" env-default:"wishlist_db"`
	User     string `env:"WISHLIST_PG_USER" env-default:"wishlist"`
	Password string `env:"WISHLIST_PG_PASSWORD" env-default:"pwd"`
}

// ToDbConfig returns the settings in the form db-utils builds its pool from
func (d DatabaseConfig) ToDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}
