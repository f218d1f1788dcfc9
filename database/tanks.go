package database

import (
	"context"
	"fmt"

	"elora/models"
)

// GetActiveTankConfigurations reads all active tank configuration rows.
func (d *Database) GetActiveTankConfigurations(ctx context.Context) ([]models.TankConfiguration, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, site_ref, site_name, device_ref, device_serial,
		       product_type, calibration_rate, max_capacity_litres, active
		FROM tank_configurations
		WHERE active = TRUE
		ORDER BY site_ref, product_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tank_configurations: %w", err)
	}
	defer rows.Close()

	var configs []models.TankConfiguration
	for rows.Next() {
		var (
			cfg         models.TankConfiguration
			productType string
		)
		if err := rows.Scan(&cfg.ID, &cfg.SiteRef, &cfg.SiteName, &cfg.DeviceRef, &cfg.DeviceSerial,
			&productType, &cfg.CalibrationRate, &cfg.MaxCapacityLitres, &cfg.Active); err != nil {
			return nil, fmt.Errorf("failed to scan tank_configurations row: %w", err)
		}
		cfg.ProductType = models.ProductType(productType)
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}
