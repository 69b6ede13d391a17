package routes

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"backend/agent"
	"backend/extract"
	"backend/geo"
	"backend/trips"
)

// Deps carries the injected collaborators the handlers need. Credentials and
// endpoints are resolved once at startup, never from ambient process state
// inside a handler.
type Deps struct {
	Agent        *agent.Client
	Extractor    *extract.Client
	Geo          *geo.Service
	OpenAIAPIKey string
	SummaryModel string
}

// Bind registers the planner API on the app router.
func Bind(se *core.ServeEvent, deps Deps) {
	g := se.Router.Group("/api/planner")

	g.POST("/assistant", TravelAssistant(deps.Agent))
	g.GET("/assistant/first-question", FirstQuestion())
	g.POST("/extract", ExtractAttachments(deps.Extractor))

	g.POST("/trips", FinalizeTrip())
	g.GET("/trips", ListTrips())

	tripGroup := g.Group("/trips/{tripId}")
	tripGroup.BindFunc(loadTrip)
	tripGroup.GET("/summary", TripSummary(deps.OpenAIAPIKey, deps.SummaryModel))
	tripGroup.GET("/calendar", TripCalendar())

	g.GET("/geo/geocode", GeocodeAddress(deps.Geo))
	g.GET("/geo/weather", CurrentWeather(deps.Geo))
	g.GET("/geo/places", NearbyPlaces(deps.Geo))
}

// loadTrip resolves the {tripId} path parameter and stashes the record for
// the trip-scoped handlers.
func loadTrip(e *core.RequestEvent) error {
	tripId := e.Request.PathValue("tripId")
	if tripId == "" {
		return e.JSON(http.StatusBadRequest, map[string]string{
			"error": "trip id is required",
		})
	}

	record, err := e.App.FindRecordById(trips.CollectionTrips, tripId)
	if err != nil {
		return e.JSON(http.StatusNotFound, map[string]string{
			"error": "trip not found",
		})
	}

	e.Set("trip", record)
	return e.Next()
}
