package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/lo"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

var ErrNotFound = errors.New("no coordinates found")

// Geocode resolves an address to coordinates, trying the full address first
// and then the fallback city, each against nominatim, geocode.maps.co and the
// Open-Meteo geocoder in turn. A diacritic-folded variant of each candidate
// is tried as well.
func (s *Service) Geocode(ctx context.Context, address, fallbackCity string) (Coordinates, error) {
	candidates := lo.Uniq(lo.Filter([]string{
		strings.TrimSpace(address),
		foldDiacritics(strings.TrimSpace(address)),
		strings.TrimSpace(fallbackCity),
		foldDiacritics(strings.TrimSpace(fallbackCity)),
	}, func(q string, _ int) bool { return q != "" }))

	for _, query := range candidates {
		key := "geocode:" + query
		if cached, ok := s.cache.Get(key); ok {
			return cached.(Coordinates), nil
		}
		if coords, ok := s.geocodeQuery(ctx, query); ok {
			s.cache.Set(key, coords, gocache.DefaultExpiration)
			return coords, nil
		}
	}
	return Coordinates{}, ErrNotFound
}

func (s *Service) geocodeQuery(ctx context.Context, query string) (Coordinates, bool) {
	endpoints := []string{
		"https://nominatim.openstreetmap.org/search?format=json&limit=1&q=" + url.QueryEscape(query),
		"https://geocode.maps.co/search?q=" + url.QueryEscape(query) + "&limit=1",
	}

	for _, endpoint := range endpoints {
		var data []struct {
			Lat string `json:"lat"`
			Lon string `json:"lon"`
		}
		if err := s.getJSON(ctx, endpoint, &data); err != nil || len(data) == 0 {
			continue
		}
		lat, latErr := strconv.ParseFloat(data[0].Lat, 64)
		lon, lonErr := strconv.ParseFloat(data[0].Lon, 64)
		if latErr == nil && lonErr == nil && finite(lat) && finite(lon) {
			return Coordinates{Lat: lat, Lon: lon}, true
		}
	}

	// Open-Meteo's geocoder as the last resort; it only knows place names but
	// rarely rejects a query outright.
	var meteo struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	endpoint := fmt.Sprintf("https://geocoding-api.open-meteo.com/v1/search?name=%s&count=1&format=json", url.QueryEscape(query))
	if err := s.getJSON(ctx, endpoint, &meteo); err == nil && len(meteo.Results) > 0 {
		first := meteo.Results[0]
		if finite(first.Latitude) && finite(first.Longitude) {
			return Coordinates{Lat: first.Latitude, Lon: first.Longitude}, true
		}
	}

	return Coordinates{}, false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
