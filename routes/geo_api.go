package routes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"backend/geo"
)

// GeocodeAddress resolves ?q= (with optional ?fallback= city) to coordinates.
func GeocodeAddress(svc *geo.Service) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		query := strings.TrimSpace(e.Request.URL.Query().Get("q"))
		if query == "" {
			return e.JSON(http.StatusBadRequest, map[string]string{
				"error": "query parameter q is required",
			})
		}
		fallback := e.Request.URL.Query().Get("fallback")

		coords, err := svc.Geocode(e.Request.Context(), query, fallback)
		if err != nil {
			if errors.Is(err, geo.ErrNotFound) {
				return e.JSON(http.StatusNotFound, map[string]string{
					"error": "no coordinates found for the given address",
				})
			}
			e.App.Logger().Error("geocode failed", "error", err, "query", query)
			return e.JSON(http.StatusBadGateway, map[string]string{
				"error": "geocoding request failed",
			})
		}
		return e.JSON(http.StatusOK, coords)
	}
}

// CurrentWeather returns current conditions for ?lat=&lon=.
func CurrentWeather(svc *geo.Service) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		lat, lon, err := latLonParams(e)
		if err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		weather, err := svc.CurrentWeather(e.Request.Context(), lat, lon)
		if err != nil {
			e.App.Logger().Error("weather fetch failed", "error", err, "lat", lat, "lon", lon)
			return e.JSON(http.StatusBadGateway, map[string]string{
				"error": "weather request failed",
			})
		}
		return e.JSON(http.StatusOK, weather)
	}
}

// NearbyPlaces returns points of interest around ?lat=&lon=.
func NearbyPlaces(svc *geo.Service) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		lat, lon, err := latLonParams(e)
		if err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		places, err := svc.NearbyPlaces(e.Request.Context(), lat, lon)
		if err != nil {
			e.App.Logger().Error("places fetch failed", "error", err, "lat", lat, "lon", lon)
			return e.JSON(http.StatusBadGateway, map[string]string{
				"error": "places request failed",
			})
		}
		return e.JSON(http.StatusOK, places)
	}
}

func latLonParams(e *core.RequestEvent) (float64, float64, error) {
	lat, latErr := strconv.ParseFloat(e.Request.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(e.Request.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		return 0, 0, errors.New("query parameters lat and lon are required")
	}
	return lat, lon, nil
}
