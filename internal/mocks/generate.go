// Package mocks provides mock implementations for testing the refurbishment pipeline.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockJobRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

// Generate mock for JobRepository interface from internal/core package.
// This creates MockJobRepository with methods for all JobRepository interface methods:
// Create, GetByID, Transition, Fail, Assign, UpdateDiagnostics, SoftDelete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_repository_mock.go github.com/lowrester/Veriqko/internal/core JobRepository

// Generate mock for SLARepository interface from internal/core package.
// This creates MockSLARepository with methods for all SLARepository interface methods:
// ListSLACandidates, MarkWarningNotified, MarkBreachNotified
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=sla_repository_mock.go github.com/lowrester/Veriqko/internal/core SLARepository

// Generate mock for FloorReader interface from internal/core package.
// This creates MockFloorReader with methods for all FloorReader interface methods:
// ActiveStations, ActiveJobSummaries, DashboardCounts, RecentJobs, PhaseDurations, TechnicianCompletions
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=floor_reader_mock.go github.com/lowrester/Veriqko/internal/core FloorReader

// Generate mock for StationRepository interface from internal/core package.
// This creates MockStationRepository with methods for all StationRepository interface methods:
// Create, GetByID, List, Deactivate
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=station_repository_mock.go github.com/lowrester/Veriqko/internal/core StationRepository

// Generate mock for DeviceRepository interface from internal/core package.
// This creates MockDeviceRepository with methods for all DeviceRepository interface methods:
// Create, GetByID, List
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=device_repository_mock.go github.com/lowrester/Veriqko/internal/core DeviceRepository

// Generate mock for TechnicianRepository interface from internal/core package.
// This creates MockTechnicianRepository with methods for all TechnicianRepository interface methods:
// GetByID, List
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=technician_repository_mock.go github.com/lowrester/Veriqko/internal/core TechnicianRepository

// Generate mock for CacheRepository interface from internal/core package.
// This creates MockCacheRepository with methods for all CacheRepository interface methods:
// Set, Get, Delete, Exists
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=cache_repository_mock.go github.com/lowrester/Veriqko/internal/core CacheRepository
