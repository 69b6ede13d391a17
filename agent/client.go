package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"

	"backend/trips"
)

const (
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultModel    = "gpt-4o-mini"

	// Only the most recent turns are sent to the backend; older turns are
	// summarized by the snapshot grounding anyway.
	conversationWindow = 20
)

const systemPrompt = `You are an expert travel agent filling in a structured trip itinerary. Lead the registration like someone who already knows the flow: a traveler flies to the destination, stays in a hotel and may have tours. Never ask "do you want to add a flight?"; assume the flight and ask directly for its details (date, airline, flight number, departure and arrival airports). One question at a time.

INTERPRETING THE DATA:
- Every request may include a "MEMORY: ATTACHMENT CONTENTS" section with the full text of the user's vouchers and confirmations. That text is the source of truth: hotels, activities, flights, airports and dates are in there. NEVER ask for information that is already in the memory; extract it and fill formUpdates.
- Each "--- name ---" block is one attachment. Extract every item from every block: each tour voucher is a day of type "activity" with date, title, time and location; each transfer is "logistics" with details.origin and details.destination; a hotel is "hotel" with check-in details; a flight only when explicitly present becomes "flight" with airline, flightNumber, departure and arrival details.
- Never invent data. Only fill formUpdates with what actually appears in the text or the conversation. If a check-out date is missing, ask or leave it blank.
- Dates always as YYYY-MM-DD (17/03/26 becomes 2026-03-17). Every day needs a "date" taken from its own voucher.

NATURAL FLOW (when there is no attachment content): destination first, then the outbound flight (details: airline, flightNumber, departure, arrival, departureDate, arrivalDate), then lodging (check-in/check-out, reservation code), then each tour as its own "activity" day with a date, then ask whether the registration can be finalized.

RULES:
- One question at a time. Every day needs a "date" in YYYY-MM-DD.
- Respond ONLY with a valid JSON object, no markdown: {"question": "next question", "formUpdates": { ... }, "done": false}
- "done": true only when the user confirms the registration can be finalized.`

const (
	missingKeyQuestion    = "The assistant is not configured: set OPENAI_API_KEY in the server environment and try again."
	emptyResponseQuestion = "The assistant returned an empty response."
	defaultQuestion       = "Itinerary updated."
)

// Config carries the reconciler's dependencies explicitly; the client never
// reads process environment itself.
type Config struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

type Client struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
}

func NewClient(cfg Config) *Client {
	c := &Client{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		model:    cfg.Model,
		endpoint: cfg.Endpoint,
		http:     cfg.HTTPClient,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 45 * time.Second}
	}
	return c
}

// FirstQuestion opens a new planning conversation.
func FirstQuestion() string {
	return "Hi! I'm your travel assistant. Where are you going? (e.g. Rome, Paris, Fernando de Noronha)"
}

// Reconcile turns the conversation plus the current form snapshot into the
// next question, an optional form patch and a completion flag. It is a pure
// function of its inputs apart from the backend call, and it never fails:
// every error path degrades into a question with done=false and no patch.
func (c *Client) Reconcile(ctx context.Context, messages []Message, snapshot trips.Snapshot) Response {
	if c.apiKey == "" {
		return Response{Question: missingKeyQuestion}
	}

	system := systemPrompt + "\n\n" + snapshotSummary(snapshot)
	if memory := attachmentMemory(messages); memory != "" {
		system += "\n\n--- MEMORY: ATTACHMENT CONTENTS (source of truth; extract everything from here and do NOT ask again for hotels, activities, flights, airports or dates listed below) ---\n\n" + memory
	}

	content, err := c.callChatCompletions(ctx, system, messages)
	if err != nil {
		return Response{Question: truncate(err.Error(), 300)}
	}
	if content == "" {
		return Response{Question: emptyResponseQuestion}
	}

	parsed, ok := parseAgentResponse(content)
	if !ok {
		return Response{Question: content}
	}
	if strings.TrimSpace(parsed.Question) == "" {
		parsed.Question = defaultQuestion
	}
	return parsed
}

// snapshotSummary compacts the current form state into a short grounding
// line so the backend does not re-derive facts the form already holds.
func snapshotSummary(snap trips.Snapshot) string {
	var parts []string
	if snap.Destination != nil && *snap.Destination != "" {
		parts = append(parts, "Destination: "+*snap.Destination)
	}
	if snap.StartDate != nil && *snap.StartDate != "" {
		parts = append(parts, "Start: "+*snap.StartDate)
	}
	if snap.EndDate != nil && *snap.EndDate != "" {
		parts = append(parts, "End: "+*snap.EndDate)
	}
	if len(snap.Days) > 0 {
		lines := lo.Map(snap.Days, func(d trips.DayPatch, _ int) string {
			s := d.Date + " " + d.Type
			if d.Title != "" {
				s += " - " + d.Title
			}
			return s
		})
		parts = append(parts, fmt.Sprintf("Registered days (%d): %s", len(snap.Days), strings.Join(lines, "; ")))
	}
	if len(parts) == 0 {
		return "The registration is still blank."
	}
	return "Current registration state: " + strings.Join(parts, ". ")
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) callChatCompletions(ctx context.Context, system string, messages []Message) (string, error) {
	chat := make([]Message, 0, len(messages)+1)
	chat = append(chat, Message{Role: "system", Content: system})
	for _, m := range truncateConversation(messages, conversationWindow) {
		if m.Content == "" {
			continue
		}
		if m.Role != RoleUser && m.Role != RoleAssistant {
			continue
		}
		chat = append(chat, m)
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    chat,
		Temperature: 0.4,
		MaxTokens:   1200,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %s", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error: %d. %s", resp.StatusCode, truncate(string(data), 200))
	}

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode assistant response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(payload.Choices[0].Message.Content), nil
}

func truncateConversation(messages []Message, limit int) []Message {
	if len(messages) <= limit {
		return messages
	}
	return messages[len(messages)-limit:]
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
