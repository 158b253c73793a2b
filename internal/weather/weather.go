// internal/weather/weather.go

// Package weather exposes current conditions and a short forecast for the
// city. The Provider boundary keeps the HTTP surface independent of where
// the readings come from; the bundled provider synthesises plausible Agadir
// conditions until a real upstream is wired in.
package weather

import (
	"context"
	"time"
)

// Current is a single observation.
type Current struct {
	Temperature int         `json:"temperature"`
	Condition   string      `json:"condition"`
	Humidity    int         `json:"humidity"`
	WindSpeed   int         `json:"windSpeed"`
	Pressure    int         `json:"pressure"`
	Visibility  int         `json:"visibility"`
	UVIndex     int         `json:"uvIndex"`
	Icon        string      `json:"icon"`
	Location    string      `json:"location"`
	Coordinates Coordinates `json:"coordinates"`
	LastUpdated time.Time   `json:"lastUpdated"`
}

// Coordinates is the observation point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Day is one forecast entry.
type Day struct {
	Date         string `json:"date"`
	Day          string `json:"day"`
	High         int    `json:"high"`
	Low          int    `json:"low"`
	Condition    string `json:"condition"`
	Icon         string `json:"icon"`
	Humidity     int    `json:"humidity"`
	WindSpeed    int    `json:"windSpeed"`
	ChanceOfRain int    `json:"chanceOfRain"`
}

// Alert is an active weather advisory.
type Alert struct {
	ID          int       `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Areas       []string  `json:"areas"`
}

// Historical summarises conditions over a past date range.
type Historical struct {
	Period   Period   `json:"period"`
	Averages Averages `json:"averages"`
	Extremes Extremes `json:"extremes"`
}

// Period bounds a historical summary, dates as YYYY-MM-DD.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Averages are mean readings over the period.
type Averages struct {
	Temperature int     `json:"temperature"`
	Humidity    int     `json:"humidity"`
	WindSpeed   int     `json:"windSpeed"`
	Rainfall    float64 `json:"rainfall"`
}

// Extremes are the peak readings over the period.
type Extremes struct {
	MaxTemp       int     `json:"maxTemp"`
	MinTemp       int     `json:"minTemp"`
	MaxWind       int     `json:"maxWind"`
	TotalRainfall float64 `json:"totalRainfall"`
}

// Provider supplies readings for a fixed city.
type Provider interface {
	Current(ctx context.Context) (*Current, error)
	Forecast(ctx context.Context, days int) ([]Day, error)
	Alerts(ctx context.Context) ([]Alert, error)
	Historical(ctx context.Context, start, end string) (*Historical, error)
}
