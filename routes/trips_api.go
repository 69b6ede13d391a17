package routes

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"backend/trips"
)

// FinalizeTrip persists a fully merged itinerary. The body is the trip shape
// the chat flow accumulated; a non-empty id updates the stored trip instead
// of creating a new one.
func FinalizeTrip() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var trip trips.Trip
		if err := e.BindBody(&trip); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid request body",
			})
		}

		saved, err := trips.Finalize(e.App, trip)
		if err != nil {
			if errors.Is(err, trips.ErrDayWithoutDate) || errors.Is(err, trips.ErrDestinationRequired) {
				return e.JSON(http.StatusBadRequest, map[string]string{
					"error": err.Error(),
				})
			}
			e.App.Logger().Error("finalize trip failed", "error", err, "destination", trip.Destination)
			return e.JSON(http.StatusInternalServerError, map[string]string{
				"error": "unable to save the trip",
			})
		}

		return e.JSON(http.StatusOK, saved)
	}
}

// ListTrips returns every stored trip with its day entries, ordered by start
// date.
func ListTrips() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		stored, err := trips.ListTrips(e.App)
		if err != nil {
			e.App.Logger().Error("list trips failed", "error", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{
				"error": "unable to load trips",
			})
		}
		return e.JSON(http.StatusOK, stored)
	}
}
