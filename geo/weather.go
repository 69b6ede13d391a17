package geo

import (
	"context"
	"fmt"
	"net/url"

	gocache "github.com/patrickmn/go-cache"
)

type Weather struct {
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	WindSpeed   float64 `json:"windSpeed"`
	Timezone    string  `json:"timezone,omitempty"`
}

var weatherDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mostly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Freezing fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Heavy drizzle",
	61: "Light rain",
	63: "Moderate rain",
	65: "Heavy rain",
	80: "Light rain showers",
	81: "Moderate rain showers",
	82: "Heavy rain showers",
	95: "Thunderstorm",
}

// CurrentWeather fetches the current conditions at a coordinate from
// Open-Meteo, localized to the timezone at that point.
func (s *Service) CurrentWeather(ctx context.Context, lat, lon float64) (Weather, error) {
	key := fmt.Sprintf("weather:%.3f:%.3f", lat, lon)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(Weather), nil
	}

	tz := s.TimezoneName(lat, lon)
	endpoint := fmt.Sprintf(
		"https://api.open-meteo.com/v1/forecast?latitude=%f&longitude=%f&current=temperature_2m,weather_code,wind_speed_10m&timezone=%s",
		lat, lon, url.QueryEscape(tz),
	)

	var data struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			WeatherCode int     `json:"weather_code"`
			WindSpeed   float64 `json:"wind_speed_10m"`
		} `json:"current"`
	}
	if err := s.getJSON(ctx, endpoint, &data); err != nil {
		return Weather{}, fmt.Errorf("weather api: %w", err)
	}

	description, ok := weatherDescriptions[data.Current.WeatherCode]
	if !ok {
		description = "Unmapped conditions"
	}

	weather := Weather{
		Temperature: data.Current.Temperature,
		Description: description,
		WindSpeed:   data.Current.WindSpeed,
		Timezone:    tz,
	}
	s.cache.Set(key, weather, gocache.DefaultExpiration)
	return weather, nil
}
