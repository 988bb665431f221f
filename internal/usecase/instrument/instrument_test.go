package instrument

import (
	"context"
	"errors"
	"testing"
	"time"

	instrumentconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument-consumer/v1"
	v1 "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument/v1"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument/v1/mock"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/clock"
	pkgerrors "github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

func TestUsecase_HandleEvent(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		event    *instrumentconsumer.InstrumentEvent
		mockFn   func(repo *mock.MockInstrumentRepository)
		assertFn func(t *testing.T, m *metrics.Metrics, err error)
	}{
		{
			name: "add stores the instrument",
			event: &instrumentconsumer.InstrumentEvent{
				Type: instrumentconsumer.EventTypeAdd,
				Data: instrumentconsumer.InstrumentData{ISIN: "DE000BASF111", Description: "BASF SE"},
			},
			mockFn: func(repo *mock.MockInstrumentRepository) {
				repo.EXPECT().Add(ctx, &v1.Instrument{ISIN: "DE000BASF111", Description: "BASF SE", AddedAt: now}).Return(nil)
			},
			assertFn: func(t *testing.T, m *metrics.Metrics, err error) {
				require.NoError(t, err)
				assert.InDelta(t, 1, testutil.ToFloat64(m.InstrumentEvents.WithLabelValues("ADD")), 0)
			},
		},
		{
			name: "delete removes the instrument",
			event: &instrumentconsumer.InstrumentEvent{
				Type: instrumentconsumer.EventTypeDelete,
				Data: instrumentconsumer.InstrumentData{ISIN: "DE000BASF111"},
			},
			mockFn: func(repo *mock.MockInstrumentRepository) {
				repo.EXPECT().Remove(ctx, "DE000BASF111").Return(nil)
			},
			assertFn: func(t *testing.T, m *metrics.Metrics, err error) {
				require.NoError(t, err)
				assert.InDelta(t, 1, testutil.ToFloat64(m.InstrumentEvents.WithLabelValues("DELETE")), 0)
			},
		},
		{
			name: "padded isin is kept verbatim",
			event: &instrumentconsumer.InstrumentEvent{
				Type: instrumentconsumer.EventTypeAdd,
				Data: instrumentconsumer.InstrumentData{ISIN: " DE000BASF111 ", Description: "BASF SE"},
			},
			mockFn: func(repo *mock.MockInstrumentRepository) {
				repo.EXPECT().Add(ctx, &v1.Instrument{ISIN: " DE000BASF111 ", Description: "BASF SE", AddedAt: now}).Return(nil)
			},
			assertFn: func(t *testing.T, m *metrics.Metrics, err error) {
				require.NoError(t, err)
				assert.InDelta(t, 1, testutil.ToFloat64(m.InstrumentEvents.WithLabelValues("ADD")), 0)
			},
		},
		{
			name: "repository error is traced",
			event: &instrumentconsumer.InstrumentEvent{
				Type: instrumentconsumer.EventTypeAdd,
				Data: instrumentconsumer.InstrumentData{ISIN: "DE000BASF111"},
			},
			mockFn: func(repo *mock.MockInstrumentRepository) {
				repo.EXPECT().Add(ctx, gomock.Any()).Return(errors.New("boom"))
			},
			assertFn: func(t *testing.T, m *metrics.Metrics, err error) {
				var tracer *pkgerrors.ErrorTracer
				require.ErrorAs(t, err, &tracer)
				assert.Equal(t, "boom", tracer.Message)
			},
		},
		{
			name: "unknown type",
			event: &instrumentconsumer.InstrumentEvent{
				Type: "RENAME",
				Data: instrumentconsumer.InstrumentData{ISIN: "DE000BASF111"},
			},
			mockFn: func(repo *mock.MockInstrumentRepository) {},
			assertFn: func(t *testing.T, m *metrics.Metrics, err error) {
				assert.Equal(t, pkgerrors.UnknownEventType, pkgerrors.CodeOf(err))
			},
		},
		{
			name:   "missing isin",
			event:  &instrumentconsumer.InstrumentEvent{Type: instrumentconsumer.EventTypeAdd},
			mockFn: func(repo *mock.MockInstrumentRepository) {},
			assertFn: func(t *testing.T, m *metrics.Metrics, err error) {
				assert.Equal(t, pkgerrors.InvalidISIN, pkgerrors.CodeOf(err))
			},
		},
		{
			name: "blank isin",
			event: &instrumentconsumer.InstrumentEvent{
				Type: instrumentconsumer.EventTypeAdd,
				Data: instrumentconsumer.InstrumentData{ISIN: "   "},
			},
			mockFn: func(repo *mock.MockInstrumentRepository) {},
			assertFn: func(t *testing.T, m *metrics.Metrics, err error) {
				assert.Equal(t, pkgerrors.InvalidISIN, pkgerrors.CodeOf(err))
			},
		},
		{
			name:   "nil event",
			mockFn: func(repo *mock.MockInstrumentRepository) {},
			assertFn: func(t *testing.T, m *metrics.Metrics, err error) {
				assert.Equal(t, pkgerrors.MalformedEvent, pkgerrors.CodeOf(err))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock.NewMockInstrumentRepository(ctrl)
			tc.mockFn(repo)

			m := metrics.NewNop()
			u := NewUsecase(repo, clock.NewManual(now), m, logger.NewNopLogger())
			tc.assertFn(t, m, u.HandleEvent(ctx, tc.event))
		})
	}
}

func TestUsecase_IsActive(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		isin    string
		mockFn  func(repo *mock.MockInstrumentRepository)
		want    bool
		wantErr bool
	}{
		{
			name:   "active",
			isin:   "A",
			mockFn: func(repo *mock.MockInstrumentRepository) { repo.EXPECT().Exists(ctx, "A").Return(true, nil) },
			want:   true,
		},
		{
			name:   "inactive",
			isin:   "B",
			mockFn: func(repo *mock.MockInstrumentRepository) { repo.EXPECT().Exists(ctx, "B").Return(false, nil) },
		},
		{
			name:   "empty isin short-circuits",
			mockFn: func(repo *mock.MockInstrumentRepository) {},
		},
		{
			name: "repository error",
			isin: "C",
			mockFn: func(repo *mock.MockInstrumentRepository) {
				repo.EXPECT().Exists(ctx, "C").Return(false, errors.New("timeout"))
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock.NewMockInstrumentRepository(ctrl)
			tc.mockFn(repo)

			u := NewUsecase(repo, clock.NewManual(now), metrics.NewNop(), logger.NewNopLogger())
			got, err := u.IsActive(ctx, tc.isin)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUsecase_ListActive(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockInstrumentRepository(ctrl)
	want := []*v1.Instrument{{ISIN: "A"}, {ISIN: "B"}}
	repo.EXPECT().List(ctx).Return(want, nil)

	u := NewUsecase(repo, clock.NewManual(now), metrics.NewNop(), logger.NewNopLogger())
	got, err := u.ListActive(ctx)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}
