package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/apex/log"
	_ "github.com/go-sql-driver/mysql"

	"elora/config"
)

// Database wraps the MySQL connection holding the tenant reference tables:
// tank configurations and the product price list.
type Database struct {
	db *sql.DB
}

// NewDatabase opens the MySQL connection and verifies the reference tables
// exist. The initial ping retries with exponential backoff since the
// database container may still be starting.
func NewDatabase(cfg *config.Config) (*Database, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var waitInterval time.Duration = 1 * time.Second
	for {
		if err := db.Ping(); err == nil {
			break
		} else {
			log.WithError(err).Warnf("Database connection failed, retrying in %v", waitInterval)
		}
		time.Sleep(waitInterval)
		waitInterval *= 2
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	d := &Database{db: db}
	if err := d.verifyAndCreateTables(); err != nil {
		return nil, fmt.Errorf("failed to verify/create tables: %w", err)
	}
	return d, nil
}

// NewFromDB wraps an existing connection; used by tests with sqlmock.
func NewFromDB(db *sql.DB) *Database {
	return &Database{db: db}
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) verifyAndCreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS tank_configurations (
			id INT AUTO_INCREMENT PRIMARY KEY,
			site_ref VARCHAR(64) NOT NULL,
			site_name VARCHAR(255) NOT NULL DEFAULT '',
			device_ref VARCHAR(64) NOT NULL DEFAULT '',
			device_serial VARCHAR(64) NOT NULL DEFAULT '',
			product_type ENUM('FOAM', 'TW', 'ECSR', 'CONC', 'GEL') NOT NULL,
			calibration_rate DOUBLE NOT NULL,
			max_capacity_litres DOUBLE NOT NULL,
			active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_site (site_ref),
			INDEX idx_device_serial (device_serial)
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price_cents INT NOT NULL,
			status ENUM('active', 'inactive') DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_status (status)
		)`,
	}
	for _, q := range queries {
		if _, err := d.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}
