package database

import (
	"context"
	"fmt"

	"elora/models"
)

// GetActiveProducts reads the active product price list.
func (d *Database) GetActiveProducts(ctx context.Context) ([]models.PriceRow, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT name, price_cents, status
		FROM products
		WHERE status = 'active'
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.PriceRow
	for rows.Next() {
		var p models.PriceRow
		if err := rows.Scan(&p.Name, &p.PriceCents, &p.Status); err != nil {
			return nil, fmt.Errorf("failed to scan products row: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
