package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lowrester/Veriqko/internal/core"
	"github.com/lowrester/Veriqko/internal/domain/model"
	apperrors "github.com/lowrester/Veriqko/internal/errors"
)

const defaultDeviceCacheTTL = 30 * time.Minute

// DeviceServiceOptions groups dependencies for DeviceService.
type DeviceServiceOptions struct {
	Repo   core.DeviceRepository
	Cache  core.CacheRepository // Optional: Redis-backed read cache
	TTL    time.Duration        // Optional: cache entry TTL, defaults to 30m
	Logger *slog.Logger
}

// DeviceService manages the device model catalog. Reads go through a
// Redis cache when one is configured; device records change rarely, so a
// stale window of one TTL is acceptable.
type DeviceService struct {
	repo   core.DeviceRepository
	cache  core.CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

// NewDeviceService constructs a new DeviceService.
func NewDeviceService(opts DeviceServiceOptions) *DeviceService {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultDeviceCacheTTL
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "device_service")
	}

	return &DeviceService{
		repo:   opts.Repo,
		cache:  opts.Cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Create adds a device model to the catalog and invalidates any cached
// entry for its ID.
func (s *DeviceService) Create(ctx context.Context, req *model.CreateDeviceRequest) (*model.Device, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validationf("%s", err.Error())
	}

	device, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if _, err := s.cache.Delete(ctx, deviceCacheKey(device.ID)); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "failed to invalidate device cache", "device_id", device.ID, "error", err)
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "device created", "id", device.ID, "brand", device.Brand, "model", device.Model)
	}

	return device, nil
}

// GetByID retrieves a device model, preferring the cache. Cache failures
// fall through to Postgres.
func (s *DeviceService) GetByID(ctx context.Context, id string) (*model.Device, error) {
	if s.cache != nil {
		if device := s.cacheGet(ctx, id); device != nil {
			return device, nil
		}
	}

	device, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cachePut(ctx, device)
	}

	return device, nil
}

// List returns a page of the device catalog.
func (s *DeviceService) List(ctx context.Context, limit, offset int) ([]*model.Device, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *DeviceService) cacheGet(ctx context.Context, id string) *model.Device {
	raw, err := s.cache.Get(ctx, deviceCacheKey(id))
	if err != nil || raw == nil {
		if err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "device cache read failed", "device_id", id, "error", err)
		}
		return nil
	}

	var device model.Device
	if err := json.Unmarshal(raw, &device); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "device cache entry corrupt, dropping", "device_id", id, "error", err)
		}
		_, _ = s.cache.Delete(ctx, deviceCacheKey(id))
		return nil
	}

	return &device
}

func (s *DeviceService) cachePut(ctx context.Context, device *model.Device) {
	raw, err := json.Marshal(device)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, deviceCacheKey(device.ID), raw, s.ttl); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "device cache write failed", "device_id", device.ID, "error", err)
	}
}

func deviceCacheKey(id string) string {
	return fmt.Sprintf("device:%s", id)
}
