package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecom-labs/storefront/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuild_ExactlyOneCurrent(t *testing.T) {
	statuses := []model.Status{
		model.StatusPending,
		model.StatusProcessing,
		model.StatusShipped,
		model.StatusDelivered,
	}

	for idx, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			tl := Build(&model.Order{
				ID:        "order-1",
				Status:    status,
				CreatedAt: date(2024, 1, 1),
				UpdatedAt: date(2024, 1, 2),
			})

			require.Len(t, tl.Steps, 4)
			assert.Nil(t, tl.Cancelled)

			currentCount := 0
			for i, step := range tl.Steps {
				switch {
				case i < idx:
					assert.Equal(t, StepCompleted, step.State, "step %s", step.Status)
				case i == idx:
					assert.Equal(t, StepCurrent, step.State, "step %s", step.Status)
					currentCount++
				default:
					assert.Equal(t, StepUpcoming, step.State, "step %s", step.Status)
				}
			}
			assert.Equal(t, 1, currentCount)
			require.NotNil(t, tl.Current())
			assert.Equal(t, status, tl.Current().Status)
		})
	}
}

func TestBuild_NilOrder(t *testing.T) {
	tl := Build(nil)

	require.Len(t, tl.Steps, 4)
	for _, step := range tl.Steps {
		assert.Equal(t, StepUpcoming, step.State)
		assert.Nil(t, step.Timestamp)
	}
	assert.Nil(t, tl.Current())
	assert.Nil(t, tl.EstimatedDelivery)
	assert.Nil(t, tl.Cancelled)
}

func TestBuild_UnknownStatus(t *testing.T) {
	tl := Build(&model.Order{
		ID:        "order-1",
		Status:    model.Status("LOST_IN_WAREHOUSE"),
		CreatedAt: date(2024, 1, 1),
	})

	require.Len(t, tl.Steps, 4)
	for _, step := range tl.Steps {
		assert.Equal(t, StepUpcoming, step.State)
	}
	assert.Nil(t, tl.Current())
	assert.Nil(t, tl.EstimatedDelivery)
}

func TestBuild_Cancelled(t *testing.T) {
	cancelledAt := date(2024, 3, 15)
	tl := Build(&model.Order{
		ID:        "order-1",
		Status:    model.StatusCancelled,
		CreatedAt: date(2024, 3, 1),
		UpdatedAt: cancelledAt,
	})

	assert.Empty(t, tl.Steps)
	require.NotNil(t, tl.Cancelled)
	assert.Equal(t, cancelledAt, tl.Cancelled.At)
	assert.Nil(t, tl.EstimatedDelivery)
	assert.Nil(t, tl.Current())
}

func TestEstimateDelivery(t *testing.T) {
	created := date(2024, 1, 1)

	tests := []struct {
		name   string
		status model.Status
		want   *time.Time
	}{
		{name: "pending is five days out", status: model.StatusPending, want: ptr(date(2024, 1, 6))},
		{name: "processing is five days out", status: model.StatusProcessing, want: ptr(date(2024, 1, 6))},
		{name: "shipped is two days out", status: model.StatusShipped, want: ptr(date(2024, 1, 3))},
		{name: "delivered has no estimate", status: model.StatusDelivered, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := Build(&model.Order{Status: tt.status, CreatedAt: created})
			if tt.want == nil {
				assert.Nil(t, tl.EstimatedDelivery)
				return
			}
			require.NotNil(t, tl.EstimatedDelivery)
			assert.Equal(t, *tt.want, *tl.EstimatedDelivery)
		})
	}
}

func TestEstimateDelivery_NoCreationTime(t *testing.T) {
	tl := Build(&model.Order{Status: model.StatusShipped})
	assert.Nil(t, tl.EstimatedDelivery)
}

func TestBuild_ShippedScenario(t *testing.T) {
	created := date(2024, 1, 1)
	shippedAt := date(2024, 1, 3)

	tl := Build(&model.Order{
		ID:        "order-1",
		Status:    model.StatusShipped,
		CreatedAt: created,
		StatusHistory: []model.StatusRecord{
			{Status: model.StatusShipped, CreatedAt: shippedAt},
		},
	})

	require.Len(t, tl.Steps, 4)

	pending, processing, shipped, delivered := tl.Steps[0], tl.Steps[1], tl.Steps[2], tl.Steps[3]

	assert.Equal(t, StepCompleted, pending.State)
	require.NotNil(t, pending.Timestamp)
	assert.Equal(t, created, *pending.Timestamp)

	assert.Equal(t, StepCompleted, processing.State)
	assert.Nil(t, processing.Timestamp, "no history entry for PROCESSING yet")

	assert.Equal(t, StepCurrent, shipped.State)
	require.NotNil(t, shipped.Timestamp)
	assert.Equal(t, shippedAt, *shipped.Timestamp)

	assert.Equal(t, StepUpcoming, delivered.State)
	assert.Nil(t, delivered.Timestamp)

	require.NotNil(t, tl.EstimatedDelivery)
	assert.Equal(t, date(2024, 1, 3), *tl.EstimatedDelivery)
}

func TestStepTimestamp_FirstHistoryEntryWins(t *testing.T) {
	first := date(2024, 2, 1)
	tl := Build(&model.Order{
		Status:    model.StatusProcessing,
		CreatedAt: date(2024, 1, 31),
		StatusHistory: []model.StatusRecord{
			{Status: model.StatusProcessing, CreatedAt: first},
			{Status: model.StatusProcessing, CreatedAt: date(2024, 2, 2)},
		},
	})

	require.NotNil(t, tl.Steps[1].Timestamp)
	assert.Equal(t, first, *tl.Steps[1].Timestamp)
}

func ptr(t time.Time) *time.Time { return &t }
