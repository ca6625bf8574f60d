package storagemock

import (
	"context"

	"github.com/maphoenix/solarroi/pkg/storage"
	"github.com/maphoenix/solarroi/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) GetTariffs(ctx context.Context) ([]types.Tariff, int, error) {
	args := m.Called(ctx)
	// return empty if not specified, or checks args
	if len(args) > 0 {
		return args.Get(0).([]types.Tariff), args.Int(1), args.Error(2)
	}
	return nil, 0, nil
}

func (m *MockDatabase) SetTariffs(ctx context.Context, tariffs []types.Tariff, version int) error {
	args := m.Called(ctx, tariffs, version)
	return args.Error(0)
}

func (m *MockDatabase) SaveReport(ctx context.Context, report types.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockDatabase) GetReport(ctx context.Context, id string) (types.Report, error) {
	args := m.Called(ctx, id)
	if len(args) > 0 {
		return args.Get(0).(types.Report), args.Error(1)
	}
	return types.Report{}, nil
}

func (m *MockDatabase) ListRecentReports(ctx context.Context, limit int) ([]types.Report, error) {
	args := m.Called(ctx, limit)
	val := args.Get(0)
	if val == nil {
		return nil, args.Error(1)
	}
	return val.([]types.Report), args.Error(1)
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
