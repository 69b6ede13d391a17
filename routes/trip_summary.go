package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/pocketbase/pocketbase/core"
	"github.com/samber/lo"

	"backend/trips"
)

type tripSummaryContext struct {
	Trip        trips.Trip `json:"trip"`
	DayCount    int        `json:"dayCount"`
	DayTypes    []string   `json:"dayTypes,omitempty"`
	GeneratedAt string     `json:"generatedAt"`
}

type tripSummaryResponse struct {
	Summary string `json:"summary"`
}

const summaryInstructions = "You are the trip planner's itinerary assistant. Using the trip context, write a concise day-by-day narrative summary of the itinerary: flights with their times, the hotel, each activity and transfer. Point out gaps worth double-checking (missing check-out, days without entries). Stay grounded in the provided data."

// TripSummary produces a narrative summary of a stored trip. The loadTrip
// middleware has already resolved the record.
func TripSummary(apiKey, model string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if strings.TrimSpace(apiKey) == "" {
			return e.JSON(http.StatusServiceUnavailable, map[string]string{
				"error": "OPENAI_API_KEY is not configured on the server",
			})
		}

		tripRecord, ok := e.Get("trip").(*core.Record)
		if !ok {
			return e.JSON(http.StatusBadRequest, map[string]string{
				"error": "unable to read trip info",
			})
		}

		trip, err := trips.TripFromRecord(e.App, tripRecord)
		if err != nil {
			e.App.Logger().Error("trip summary build context error", "error", err, "tripId", tripRecord.Id)
			return e.JSON(http.StatusInternalServerError, map[string]string{
				"error": "unable to load the latest trip context",
			})
		}

		contextPrompt, err := buildSummaryContext(trip)
		if err != nil {
			e.App.Logger().Error("trip summary failed to build input", "error", err, "tripId", tripRecord.Id)
			return e.JSON(http.StatusInternalServerError, map[string]string{
				"error": "could not format the summary request",
			})
		}

		client := openai.NewClient(option.WithAPIKey(apiKey))
		resp, err := client.Responses.New(e.Request.Context(), responses.ResponseNewParams{
			Model:           model,
			MaxOutputTokens: openai.Int(1200),
			Instructions:    openai.String(summaryInstructions),
			Input: responses.ResponseNewParamsInputUnion{
				OfInputItemList: []responses.ResponseInputItemUnionParam{
					responses.ResponseInputItemParamOfMessage(contextPrompt, responses.EasyInputMessageRoleUser),
				},
			},
		})
		if err != nil {
			e.App.Logger().Error("trip summary call failed", "error", err, "tripId", tripRecord.Id)
			return e.JSON(http.StatusBadGateway, map[string]string{
				"error": fmt.Sprintf("summary request failed: %s", err.Error()),
			})
		}

		text := strings.TrimSpace(resp.OutputText())
		if text == "" {
			return e.JSON(http.StatusBadGateway, map[string]string{
				"error": "the summary assistant returned an empty message",
			})
		}

		return e.JSON(http.StatusOK, tripSummaryResponse{Summary: text})
	}
}

func buildSummaryContext(trip trips.Trip) (string, error) {
	ctx := tripSummaryContext{
		Trip:        trip,
		DayCount:    len(trip.Days),
		DayTypes:    lo.Uniq(lo.Map(trip.Days, func(d trips.TripDay, _ int) string { return d.Type })),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	ctxJSON, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return "", err
	}
	return "Latest trip context:\n" + string(ctxJSON), nil
}
