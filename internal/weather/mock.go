// internal/weather/mock.go
package weather

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// maxForecastDays caps the forecast horizon.
const maxForecastDays = 7

// windAlertSpeed is the sustained wind, in km/h, above which the provider
// raises a high-wind advisory.
const windAlertSpeed = 30

// historicalDays is the default lookback window for Historical.
const historicalDays = 30

// agadirBase holds the reference observation the mock jitters around.
var agadirBase = Current{
	Temperature: 24,
	Condition:   "Sunny",
	Humidity:    65,
	WindSpeed:   12,
	Pressure:    1013,
	Visibility:  10,
	UVIndex:     6,
	Icon:        "☀️",
	Location:    "Agadir, Morocco",
	Coordinates: Coordinates{Latitude: 30.4278, Longitude: -9.5981},
}

var forecastPattern = []Day{
	{Day: "Today", High: 26, Low: 18, Condition: "Sunny", Icon: "☀️", Humidity: 65, WindSpeed: 12, ChanceOfRain: 0},
	{Day: "Tomorrow", High: 28, Low: 20, Condition: "Partly Cloudy", Icon: "⛅", Humidity: 70, WindSpeed: 15, ChanceOfRain: 10},
	{High: 25, Low: 17, Condition: "Cloudy", Icon: "☁️", Humidity: 75, WindSpeed: 18, ChanceOfRain: 30},
	{High: 23, Low: 16, Condition: "Light Rain", Icon: "🌦️", Humidity: 80, WindSpeed: 20, ChanceOfRain: 70},
	{High: 27, Low: 19, Condition: "Sunny", Icon: "☀️", Humidity: 60, WindSpeed: 10, ChanceOfRain: 0},
	{High: 26, Low: 18, Condition: "Partly Cloudy", Icon: "⛅", Humidity: 68, WindSpeed: 14, ChanceOfRain: 20},
	{High: 24, Low: 17, Condition: "Sunny", Icon: "☀️", Humidity: 62, WindSpeed: 11, ChanceOfRain: 0},
}

// MockProvider synthesises Agadir readings with bounded jitter so repeated
// calls look like a live feed.
type MockProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewMockProvider seeds the jitter source from the clock.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// Current returns the base observation with jitter applied.
func (p *MockProvider) Current(ctx context.Context) (*Current, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := agadirBase
	c.Temperature += p.rng.Intn(6) - 3
	c.Humidity += p.rng.Intn(20) - 10
	c.WindSpeed += p.rng.Intn(10) - 5
	if c.WindSpeed < 0 {
		c.WindSpeed = 0
	}
	c.LastUpdated = p.now()
	return &c, nil
}

// Forecast returns up to days entries starting today.
func (p *MockProvider) Forecast(ctx context.Context, days int) ([]Day, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if days < 1 {
		days = 5
	}
	if days > maxForecastDays {
		days = maxForecastDays
	}

	now := p.now()
	out := make([]Day, 0, days)
	for i := 0; i < days; i++ {
		d := forecastPattern[i%len(forecastPattern)]
		date := now.AddDate(0, 0, i)
		d.Date = date.Format("2006-01-02")
		if d.Day == "" {
			d.Day = date.Weekday().String()
		}
		out = append(out, d)
	}
	return out, nil
}

// Alerts returns active advisories. The synthetic feed only raises one when
// the current wind reading crosses windAlertSpeed, so the list is usually
// empty.
func (p *MockProvider) Alerts(ctx context.Context) ([]Alert, error) {
	c, err := p.Current(ctx)
	if err != nil {
		return nil, err
	}

	alerts := []Alert{}
	if c.WindSpeed >= windAlertSpeed {
		now := c.LastUpdated
		alerts = append(alerts, Alert{
			ID:          1,
			Type:        "warning",
			Title:       "High Wind Warning",
			Description: "Strong winds expected this afternoon with gusts up to 50 km/h",
			Severity:    "moderate",
			StartTime:   now,
			EndTime:     now.Add(6 * time.Hour),
			Areas:       []string{"Agadir", "Surrounding areas"},
		})
	}
	return alerts, nil
}

// Historical summarises the requested window, defaulting to the last thirty
// days when either bound is missing.
func (p *MockProvider) Historical(ctx context.Context, start, end string) (*Historical, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if start == "" {
		start = now.AddDate(0, 0, -historicalDays).Format("2006-01-02")
	}
	if end == "" {
		end = now.Format("2006-01-02")
	}

	return &Historical{
		Period: Period{Start: start, End: end},
		Averages: Averages{
			Temperature: 23,
			Humidity:    68,
			WindSpeed:   14,
			Rainfall:    2.5,
		},
		Extremes: Extremes{
			MaxTemp:       32,
			MinTemp:       12,
			MaxWind:       45,
			TotalRainfall: 15.2,
		},
	}, nil
}
