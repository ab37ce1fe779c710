package service

import (
	"context"
	"testing"

	"github.com/lowrester/Veriqko/internal/data"
	"github.com/lowrester/Veriqko/internal/domain/model"
	apperrors "github.com/lowrester/Veriqko/internal/errors"
	"github.com/lowrester/Veriqko/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newStationServiceFixture(t *testing.T) (*mocks.MockStationRepository, *StationService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockStationRepository(ctrl)
	return repo, NewStationService(StationServiceOptions{Repo: repo})
}

func TestStationService_Create(t *testing.T) {
	repo, svc := newStationServiceFixture(t)

	req := &model.CreateStationRequest{Name: "Bench 1", Type: model.StationTypeBench}
	repo.EXPECT().Create(gomock.Any(), req).
		Return(&model.Station{ID: "st-1", Name: "Bench 1", Type: model.StationTypeBench, IsActive: true}, nil)

	station, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "st-1", station.ID)
	assert.True(t, station.IsActive)
}

func TestStationService_Create_DuplicateNameIsConflict(t *testing.T) {
	repo, svc := newStationServiceFixture(t)

	req := &model.CreateStationRequest{Name: "Bench 1", Type: model.StationTypeBench}
	repo.EXPECT().Create(gomock.Any(), req).Return(nil, data.ErrStationNameExists)

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestStationService_Create_InvalidType(t *testing.T) {
	_, svc := newStationServiceFixture(t)

	_, err := svc.Create(context.Background(), &model.CreateStationRequest{Name: "Bench 1", Type: "warehouse"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestStationService_Deactivate(t *testing.T) {
	repo, svc := newStationServiceFixture(t)

	repo.EXPECT().Deactivate(gomock.Any(), "st-1").Return(true, nil)
	deactivated, err := svc.Deactivate(context.Background(), "st-1")
	require.NoError(t, err)
	assert.True(t, deactivated)

	// Second deactivation reports false without erroring.
	repo.EXPECT().Deactivate(gomock.Any(), "st-1").Return(false, nil)
	deactivated, err = svc.Deactivate(context.Background(), "st-1")
	require.NoError(t, err)
	assert.False(t, deactivated)
}
