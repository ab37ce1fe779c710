// Package devseed populates a development database with a small device
// catalog, floor stations, a technician roster, and a handful of intake
// jobs. Seeding is idempotent: records that already exist are left alone.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/lowrester/Veriqko/internal/data"
	"github.com/lowrester/Veriqko/internal/data/pgxutil"
	"github.com/lowrester/Veriqko/internal/domain/model"
	apperrors "github.com/lowrester/Veriqko/internal/errors"
	"github.com/lowrester/Veriqko/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB       *sql.DB
	devices  *service.DeviceService
	stations *service.StationService
	jobs     *service.JobService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	deviceRepo := data.NewDeviceRepo(db)
	deviceService := service.NewDeviceService(service.DeviceServiceOptions{
		Repo: deviceRepo,
	})

	stationRepo := data.NewStationRepo(db)
	stationService := service.NewStationService(service.StationServiceOptions{
		Repo: stationRepo,
	})

	jobRepo := data.NewJobRepo(db)
	technicianRepo := data.NewTechnicianRepo(db)
	jobService := service.MustNewJobService(service.JobServiceOptions{
		Repo:        jobRepo,
		Devices:     deviceService,
		Stations:    stationRepo,
		Technicians: technicianRepo,
	})

	return Services{
		DB:       db,
		devices:  deviceService,
		stations: stationService,
		jobs:     jobService,
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0
	failures += seedDevices(ctx, svcs.devices, logger)
	failures += seedStations(ctx, svcs.stations, logger)
	failures += seedTechnicians(ctx, svcs.DB, logger)
	failures += seedJobs(ctx, svcs, logger)
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func seedDevices(ctx context.Context, svc *service.DeviceService, logger *slog.Logger) int {
	failures := 0
	for _, req := range defaultDevices() {
		created, err := createDevice(ctx, svc, req)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to create device", "model", req.Model, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			msg := "device already exists"
			if created {
				msg = "device created"
			}
			logger.InfoContext(ctx, msg, "brand", req.Brand, "model", req.Model)
		}
	}
	return failures
}

func createDevice(ctx context.Context, svc *service.DeviceService, req *model.CreateDeviceRequest) (bool, error) {
	if _, err := svc.Create(ctx, req); err != nil {
		if apperrors.IsConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func defaultDevices() []*model.CreateDeviceRequest {
	return []*model.CreateDeviceRequest{
		{
			Brand:       "Apple",
			DeviceType:  "phone",
			Model:       "iPhone 13",
			ModelNumber: stringPtr("A2482"),
			SLAHours:    intPtr(48),
		},
		{
			Brand:       "Apple",
			DeviceType:  "tablet",
			Model:       "iPad Air 5",
			ModelNumber: stringPtr("A2588"),
			SLAHours:    intPtr(72),
		},
		{
			Brand:       "Samsung",
			DeviceType:  "phone",
			Model:       "Galaxy S22",
			ModelNumber: stringPtr("SM-S901U"),
			SLAHours:    intPtr(48),
		},
		{
			Brand:      "Lenovo",
			DeviceType: "laptop",
			Model:      "ThinkPad T14 Gen 3",
			SLAHours:   intPtr(96),
		},
		{
			// No SLA budget: jobs for this model never get a deadline.
			Brand:      "Acme",
			DeviceType: "accessory",
			Model:      "Charging Dock",
		},
	}
}

func seedStations(ctx context.Context, svc *service.StationService, logger *slog.Logger) int {
	failures := 0
	for _, req := range defaultStations() {
		created, err := createStation(ctx, svc, req)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to create station", "name", req.Name, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			msg := "station already exists"
			if created {
				msg = "station created"
			}
			logger.InfoContext(ctx, msg, "name", req.Name, "type", req.Type)
		}
	}
	return failures
}

func createStation(ctx context.Context, svc *service.StationService, req *model.CreateStationRequest) (bool, error) {
	if _, err := svc.Create(ctx, req); err != nil {
		if apperrors.IsConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func defaultStations() []*model.CreateStationRequest {
	return []*model.CreateStationRequest{
		{Name: "Bench 1", Type: model.StationTypeBench},
		{Name: "Bench 2", Type: model.StationTypeBench},
		{Name: "Bench 3", Type: model.StationTypeBench},
		{Name: "QC Desk", Type: model.StationTypeBench},
		{Name: "Wipe Rack", Type: model.StationTypeQueue},
	}
}

type technicianSeed struct {
	Name  string
	Email string
}

func defaultTechnicians() []technicianSeed {
	return []technicianSeed{
		{Name: "Dana Reyes", Email: "dana.reyes@veriqko.local"},
		{Name: "Marcus Chen", Email: "marcus.chen@veriqko.local"},
		{Name: "Priya Nair", Email: "priya.nair@veriqko.local"},
	}
}

// seedTechnicians inserts the roster directly; the roster is managed by an
// external HR sync in production, so there is no create service to go through.
func seedTechnicians(ctx context.Context, db *sql.DB, logger *slog.Logger) int {
	failures := 0
	for _, tech := range defaultTechnicians() {
		err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
			_, execErr := conn.Exec(ctx, `
				INSERT INTO technicians (id, name, email, is_active)
				VALUES (gen_random_uuid(), $1, $2, TRUE)
				ON CONFLICT (email) DO NOTHING`, tech.Name, tech.Email)
			return execErr
		})
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed technician", "email", tech.Email, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "technician ensured", "name", tech.Name, "email", tech.Email)
		}
	}
	return failures
}

func seedJobs(ctx context.Context, svcs Services, logger *slog.Logger) int {
	devices, err := svcs.devices.List(ctx, 100, 0)
	if err != nil {
		if logger != nil {
			logger.ErrorContext(ctx, "failed to list devices for job seeding", "error", err)
		}
		return 1
	}

	deviceByModel := make(map[string]string, len(devices))
	for _, device := range devices {
		deviceByModel[device.Model] = device.ID
	}

	failures := 0
	for _, seed := range defaultJobSeeds() {
		deviceID, ok := deviceByModel[seed.DeviceModel]
		if !ok {
			if logger != nil {
				logger.WarnContext(ctx, "skipping job seed; device model missing", "model", seed.DeviceModel)
			}
			failures++
			continue
		}

		_, err := svcs.jobs.Create(ctx, &model.CreateJobRequest{
			SerialNumber: seed.SerialNumber,
			DeviceID:     deviceID,
			BatchID:      seed.BatchID,
		})
		if err != nil {
			if apperrors.IsConflict(err) {
				if logger != nil {
					logger.InfoContext(ctx, "job already exists", "serial_number", seed.SerialNumber)
				}
				continue
			}
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed job", "serial_number", seed.SerialNumber, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "job created", "serial_number", seed.SerialNumber, "model", seed.DeviceModel)
		}
	}
	return failures
}

type jobSeed struct {
	SerialNumber string
	DeviceModel  string
	BatchID      *string
}

func defaultJobSeeds() []jobSeed {
	batch := stringPtr("LOT-2024-001")
	return []jobSeed{
		{SerialNumber: "SN-IP13-0001", DeviceModel: "iPhone 13", BatchID: batch},
		{SerialNumber: "SN-IP13-0002", DeviceModel: "iPhone 13", BatchID: batch},
		{SerialNumber: "SN-GS22-0001", DeviceModel: "Galaxy S22", BatchID: batch},
		{SerialNumber: "SN-IPAD-0001", DeviceModel: "iPad Air 5"},
		{SerialNumber: "SN-TP14-0001", DeviceModel: "ThinkPad T14 Gen 3"},
	}
}

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }
