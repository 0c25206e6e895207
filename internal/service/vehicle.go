package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/utafrali/RentalGo/internal/domain"
	"github.com/utafrali/RentalGo/internal/listing"
	"github.com/utafrali/RentalGo/internal/normalize"
	apperrors "github.com/utafrali/RentalGo/pkg/errors"
)

// User-facing messages of the vehicle pages.
const (
	MsgLoadFailed      = "Failed to load vehicles from API."
	MsgNoVehicleChosen = "No vehicle selected."
	MsgVehicleNotFound = "Vehicle not found."
)

// CatalogClient fetches raw records from the catalog API.
type CatalogClient interface {
	ListVehicles(ctx context.Context) ([]domain.RawCatalogRecord, error)
	GetVehicle(ctx context.Context, id int) (domain.RawCatalogRecord, error)
}

// GridPage is the view model of the vehicles page and its grid fragment.
type GridPage struct {
	ViewID   string
	Filter   domain.FilterState
	Vehicles []domain.DisplayVehicle
	Colors   []string
	Stats    domain.Stats
	HasStats bool
	// Error is set when the catalog could not be loaded; nothing else is.
	Error string
}

// Empty reports whether the filtered grid has no vehicles to show.
func (p GridPage) Empty() bool {
	return p.Error == "" && len(p.Vehicles) == 0
}

// DetailPage is the view model of the details page.
type DetailPage struct {
	Vehicle *domain.VehicleDetail
	Message string
}

// VehicleService turns catalog data into the view models of the vehicle pages.
// Catalog failures are logged and degraded, never returned to the page.
type VehicleService struct {
	catalog CatalogClient
	cache   *listing.SnapshotCache
	logger  *slog.Logger
}

// NewVehicleService creates a new vehicle service.
func NewVehicleService(catalog CatalogClient, cache *listing.SnapshotCache, logger *slog.Logger) *VehicleService {
	return &VehicleService{
		catalog: catalog,
		cache:   cache,
		logger:  logger,
	}
}

// Teaser returns the home page vehicles. A failed fetch yields an empty list.
func (s *VehicleService) Teaser(ctx context.Context) []domain.DisplayVehicle {
	raw, err := s.catalog.ListVehicles(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "teaser degraded to empty list",
			slog.String("error", err.Error()),
		)
		return []domain.DisplayVehicle{}
	}
	return normalize.Teaser.Normalize(raw)
}

// Snapshot returns the page view's snapshot for viewID, fetching and caching a
// new one when viewID is unknown or expired. The returned id identifies the
// snapshot actually used.
func (s *VehicleService) Snapshot(ctx context.Context, viewID string) (string, listing.Snapshot, error) {
	if snap, ok := s.cache.Get(viewID); ok {
		return viewID, snap, nil
	}

	raw, err := s.catalog.ListVehicles(ctx)
	if err != nil {
		return "", listing.Snapshot{}, err
	}

	snap := listing.NewSnapshot(normalize.Grid.Normalize(raw))
	id := s.cache.Put(snap)

	s.logger.DebugContext(ctx, "vehicle snapshot cached",
		slog.String("view_id", id),
		slog.Int("vehicles", snap.Len()),
	)
	return id, snap, nil
}

// Grid builds the vehicles page for viewID filtered by f. Stats always cover
// the whole snapshot.
func (s *VehicleService) Grid(ctx context.Context, viewID string, f domain.FilterState) GridPage {
	id, snap, err := s.Snapshot(ctx, viewID)
	if err != nil {
		s.logger.WarnContext(ctx, "vehicle grid degraded",
			slog.String("error", err.Error()),
		)
		return GridPage{Filter: f, Error: MsgLoadFailed}
	}

	stats, ok := listing.Summarize(snap.Vehicles())
	return GridPage{
		ViewID:   id,
		Filter:   f,
		Vehicles: snap.Apply(f),
		Colors:   snap.Colors(),
		Stats:    stats,
		HasStats: ok,
	}
}

// Vehicle fetches and normalizes a single vehicle.
func (s *VehicleService) Vehicle(ctx context.Context, id int) (domain.VehicleDetail, error) {
	if id <= 0 {
		return domain.VehicleDetail{}, apperrors.NotFound("vehicle", strconv.Itoa(id))
	}
	rec, err := s.catalog.GetVehicle(ctx, id)
	if err != nil {
		return domain.VehicleDetail{}, err
	}
	return normalize.Detail(rec, id), nil
}

// Detail builds the details page for the raw id query value.
func (s *VehicleService) Detail(ctx context.Context, rawID string) DetailPage {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return DetailPage{Message: MsgNoVehicleChosen}
	}

	id, err := strconv.Atoi(rawID)
	if err != nil {
		s.logger.InfoContext(ctx, "invalid vehicle id", slog.String("id", rawID))
		return DetailPage{Message: MsgVehicleNotFound}
	}

	v, err := s.Vehicle(ctx, id)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelInfo
		}
		s.logger.Log(ctx, level, "vehicle detail unavailable",
			slog.Int("vehicle_id", id),
			slog.String("error", err.Error()),
		)
		return DetailPage{Message: MsgVehicleNotFound}
	}
	return DetailPage{Vehicle: &v}
}
