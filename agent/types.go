package agent

import "backend/trips"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the planning conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response is the reconciler's single output per turn: the next question to
// show the user, an optional partial update for the itinerary form, and
// whether the user confirmed the itinerary is ready to finalize.
//
// Question is always non-empty. Done is only ever true when the extraction
// backend asserted it; every degraded path reports false.
type Response struct {
	Question    string          `json:"question"`
	FormUpdates *trips.Snapshot `json:"formUpdates,omitempty"`
	Done        bool            `json:"done,omitempty"`
}
