package routes

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"backend/trips"
)

// TripCalendar exports a stored trip as an iCalendar download.
func TripCalendar() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tripRecord, ok := e.Get("trip").(*core.Record)
		if !ok {
			return e.JSON(http.StatusBadRequest, map[string]string{
				"error": "unable to read trip info",
			})
		}

		trip, err := trips.TripFromRecord(e.App, tripRecord)
		if err != nil {
			e.App.Logger().Error("trip calendar load failed", "error", err, "tripId", tripRecord.Id)
			return e.JSON(http.StatusInternalServerError, map[string]string{
				"error": "unable to load the trip",
			})
		}

		serialized, err := trips.BuildCalendar(trip)
		if err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		}

		e.Response.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="trip.ics"`)
		return e.String(http.StatusOK, serialized)
	}
}
