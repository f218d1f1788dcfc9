package service

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"

	"elora/config"
	"elora/metrics"
	"elora/models"
	"elora/reportcost"
	"elora/tanklevel"
)

// TelemetryFetcher is the slice of the Elora API client the report service
// consumes. Tests substitute a stub.
type TelemetryFetcher interface {
	Vehicles(ctx context.Context) ([]models.Vehicle, error)
	Scans(ctx context.Context, since time.Time) ([]models.ScanEvent, error)
	Refills(ctx context.Context) ([]models.RefillEvent, error)
}

// ReferenceStore supplies the tenant reference tables.
type ReferenceStore interface {
	GetActiveTankConfigurations(ctx context.Context) ([]models.TankConfiguration, error)
	GetActiveProducts(ctx context.Context) ([]models.PriceRow, error)
}

// ReportDelivery receives generated reports; email, SMS and the queue
// publisher all implement a slice of it.
type ReportDelivery interface {
	SendReport(data *models.ReportData, tanks []models.TankLevelResult) error
}

// ReportService runs the fetch -> reconcile -> price -> aggregate pipeline.
// Stateless between requests: every call fetches fresh event data.
type ReportService struct {
	cfg      *config.Config
	api      TelemetryFetcher
	store    ReferenceStore
	delivery []ReportDelivery
	pricing  *reportcost.PricingConfig
	now      func() time.Time
}

func NewReportService(cfg *config.Config, api TelemetryFetcher, store ReferenceStore, delivery ...ReportDelivery) *ReportService {
	return &ReportService{
		cfg:      cfg,
		api:      api,
		store:    store,
		delivery: delivery,
		pricing:  reportcost.DefaultPricingConfig(),
		now:      time.Now,
	}
}

// Report bundles one generated report with its per-tank levels.
type Report struct {
	Data  models.ReportData        `json:"data"`
	Tanks []models.TankLevelResult `json:"tanks"`
}

// TankLevels computes current levels for every active tank. Per-tank
// failures come back inside the result slice; only fetch failures error.
func (s *ReportService) TankLevels(ctx context.Context) ([]models.TankLevelResult, error) {
	configs, err := s.store.GetActiveTankConfigurations(ctx)
	if err != nil {
		return nil, err
	}
	refills, err := s.api.Refills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch refills: %w", err)
	}
	scans, err := s.api.Scans(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scans: %w", err)
	}

	now := s.now()
	results := make([]models.TankLevelResult, 0, len(configs))
	for _, tank := range configs {
		result := tanklevel.ComputeTankLevel(tank, refills, scans, now)
		if result.Err != "" {
			metrics.TanksComputedTotal.WithLabelValues("error").Inc()
			log.Warnf("tank %d (%s %s): %s", tank.ID, tank.SiteRef, tank.ProductType, result.Err)
		} else {
			metrics.TanksComputedTotal.WithLabelValues("ok").Inc()
		}
		results = append(results, result)
	}
	return results, nil
}

// GenerateReport builds the full fleet report over scans since the given
// time and pushes it through the configured delivery channels.
func (s *ReportService) GenerateReport(ctx context.Context, since time.Time) (*Report, error) {
	start := time.Now()

	report, err := s.generate(ctx, since)
	if err != nil {
		metrics.ReportsGeneratedTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ReportsGeneratedTotal.WithLabelValues("ok").Inc()
	metrics.ReportDurationSeconds.Observe(time.Since(start).Seconds())

	for _, d := range s.delivery {
		if err := d.SendReport(&report.Data, report.Tanks); err != nil {
			log.WithError(err).Warn("report delivery channel failed")
		}
	}
	return report, nil
}

func (s *ReportService) generate(ctx context.Context, since time.Time) (*Report, error) {
	vehicles, err := s.api.Vehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vehicles: %w", err)
	}
	scans, err := s.api.Scans(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scans: %w", err)
	}
	configs, err := s.store.GetActiveTankConfigurations(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.store.GetActiveProducts(ctx)
	if err != nil {
		return nil, err
	}

	resolver := reportcost.NewResolver(s.pricing, vehicles, configs, products)
	data := reportcost.ComputeReportData(scans, vehicles, resolver)

	tanks, err := s.TankLevels(ctx)
	if err != nil {
		return nil, err
	}

	log.Infof("report generated: %d trucks, %d washes, $%.2f total",
		data.FleetSize, data.TotalWashes, data.TotalProgramCost)
	return &Report{Data: data, Tanks: tanks}, nil
}
