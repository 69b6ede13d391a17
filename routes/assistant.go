package routes

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"backend/agent"
	"backend/trips"
)

type travelAssistantRequest struct {
	Messages []agent.Message `json:"messages"`
	Snapshot trips.Snapshot  `json:"snapshot"`
	// Form, when present, asks the server to apply the resulting patch and
	// return the merged form state alongside the raw response.
	Form *trips.FormState `json:"form,omitempty"`
}

type travelAssistantResponse struct {
	agent.Response
	Form *trips.FormState `json:"form,omitempty"`
}

// groundingSnapshot picks the snapshot the reconciler is grounded with.
// Callers that send only the form get one projected from it, so a filled form
// never looks like an empty registration to the assistant.
func groundingSnapshot(req travelAssistantRequest) trips.Snapshot {
	if req.Form != nil && req.Snapshot.IsZero() {
		return trips.FormToSnapshot(*req.Form)
	}
	return req.Snapshot
}

// TravelAssistant runs one reconciliation turn: the chat transcript plus the
// current form snapshot go in, the next question, an optional form patch and
// the completion flag come out. Reconciler-internal failures (missing key,
// backend errors, unparseable replies) are not HTTP errors; they come back
// as assistant questions so the conversation keeps going.
func TravelAssistant(client *agent.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req travelAssistantRequest
		if err := e.BindBody(&req); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid request body",
			})
		}

		if len(req.Messages) == 0 {
			return e.JSON(http.StatusBadRequest, map[string]string{
				"error": "at least one message is required",
			})
		}

		resp := travelAssistantResponse{
			Response: client.Reconcile(e.Request.Context(), req.Messages, groundingSnapshot(req)),
		}
		if req.Form != nil && resp.FormUpdates != nil {
			merged := trips.ApplyAgentUpdates(*req.Form, *resp.FormUpdates)
			resp.Form = &merged
		}
		if resp.Done {
			e.App.Logger().Info("travel assistant marked a registration complete")
		}
		return e.JSON(http.StatusOK, resp)
	}
}

// FirstQuestion returns the canned conversation opener together with the
// blank form state a new registration starts from.
func FirstQuestion() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, travelAssistantResponse{
			Response: agent.Response{Question: agent.FirstQuestion()},
			Form:     &trips.FormState{Days: []trips.TripDay{trips.NewEmptyDay(1)}},
		})
	}
}
