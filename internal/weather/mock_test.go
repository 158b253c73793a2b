// internal/weather/mock_test.go
package weather

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCurrentStaysWithinJitterBounds(t *testing.T) {
	p := NewMockProvider()

	rapid.Check(t, func(t *rapid.T) {
		c, err := p.Current(context.Background())
		require.NoError(t, err)

		assert.GreaterOrEqual(t, c.Temperature, 21)
		assert.LessOrEqual(t, c.Temperature, 26)
		assert.GreaterOrEqual(t, c.Humidity, 55)
		assert.LessOrEqual(t, c.Humidity, 74)
		assert.GreaterOrEqual(t, c.WindSpeed, 0)
		assert.Equal(t, "Agadir, Morocco", c.Location)
		assert.False(t, c.LastUpdated.IsZero())
	})
}

func TestForecastLengthAndDates(t *testing.T) {
	p := NewMockProvider()
	p.now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }

	days, err := p.Forecast(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, days, 5)

	assert.Equal(t, "2026-03-02", days[0].Date)
	assert.Equal(t, "Today", days[0].Day)
	assert.Equal(t, "Tomorrow", days[1].Day)
	assert.Equal(t, "Wednesday", days[2].Day)
	assert.Equal(t, "2026-03-06", days[4].Date)
}

func TestForecastClampsDays(t *testing.T) {
	p := NewMockProvider()

	days, err := p.Forecast(context.Background(), 30)
	require.NoError(t, err)
	assert.Len(t, days, maxForecastDays)

	days, err = p.Forecast(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, days, 5)
}

func TestAlertsQuietInCalmWind(t *testing.T) {
	p := NewMockProvider()

	// Jitter keeps the wind well under the advisory threshold, so the feed
	// reports no active alerts.
	alerts, err := p.Alerts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alerts)
	assert.NotNil(t, alerts)
}

func TestHistoricalDefaultsToLastThirtyDays(t *testing.T) {
	p := NewMockProvider()
	p.now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }

	h, err := p.Historical(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "2026-01-31", h.Period.Start)
	assert.Equal(t, "2026-03-02", h.Period.End)
	assert.Equal(t, 23, h.Averages.Temperature)
	assert.Equal(t, 32, h.Extremes.MaxTemp)
}

func TestHistoricalHonoursExplicitRange(t *testing.T) {
	p := NewMockProvider()

	h, err := p.Historical(context.Background(), "2026-06-01", "2026-06-30")
	require.NoError(t, err)
	assert.Equal(t, "2026-06-01", h.Period.Start)
	assert.Equal(t, "2026-06-30", h.Period.End)
}
