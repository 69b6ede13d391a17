package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"backend/trips"
)

func chatServer(t *testing.T, status int, content string, lastSystem *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if lastSystem != nil && len(req.Messages) > 0 && req.Messages[0].Role == "system" {
			*lastSystem = req.Messages[0].Content
		}
		if status >= 400 {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":{"message":"backend exploded"}}`)
			return
		}
		fmt.Fprintf(w, `{"choices":[{"message":{"content":%s}}]}`, strconv.Quote(content))
	}))
}

func testClient(key, endpoint string) *Client {
	return NewClient(Config{APIKey: key, Endpoint: endpoint})
}

func userTurn(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

func TestReconcile_MissingKeyNeverCallsBackend(t *testing.T) {
	t.Parallel()

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	resp := testClient("", server.URL).Reconcile(context.Background(), userTurn("hi"), trips.Snapshot{})
	if called {
		t.Fatal("backend was called without a configured key")
	}
	if resp.Question != missingKeyQuestion || resp.Done || resp.FormUpdates != nil {
		t.Fatalf("resp=%+v, want the fixed instructive question and nothing else", resp)
	}
}

func TestReconcile_BackendErrorBecomesQuestion(t *testing.T) {
	t.Parallel()

	server := chatServer(t, http.StatusInternalServerError, "", nil)
	defer server.Close()

	resp := testClient("k", server.URL).Reconcile(context.Background(), userTurn("hi"), trips.Snapshot{})
	if !strings.Contains(resp.Question, "API error: 500") {
		t.Fatalf("question=%q, want an embedded error summary", resp.Question)
	}
	if resp.Done || resp.FormUpdates != nil {
		t.Fatalf("resp=%+v, want done=false and no patch on error", resp)
	}
}

func TestReconcile_EmptyContent(t *testing.T) {
	t.Parallel()

	server := chatServer(t, http.StatusOK, "", nil)
	defer server.Close()

	resp := testClient("k", server.URL).Reconcile(context.Background(), userTurn("hi"), trips.Snapshot{})
	if resp.Question != emptyResponseQuestion || resp.Done {
		t.Fatalf("resp=%+v, want the fixed empty-response question", resp)
	}
}

func TestReconcile_DegradesToRawText(t *testing.T) {
	t.Parallel()

	server := chatServer(t, http.StatusOK, "Sure, no problem!", nil)
	defer server.Close()

	resp := testClient("k", server.URL).Reconcile(context.Background(), userTurn("hi"), trips.Snapshot{})
	if resp.Question != "Sure, no problem!" {
		t.Fatalf("question=%q, want the raw text", resp.Question)
	}
	if resp.Done || resp.FormUpdates != nil {
		t.Fatalf("resp=%+v, want no patch and done=false", resp)
	}
}

func TestReconcile_ParsesStructuredReply(t *testing.T) {
	t.Parallel()

	reply := `Here it is: {"question":"And the return flight?","formUpdates":{"destination":"Paris"},"done":false}`
	server := chatServer(t, http.StatusOK, reply, nil)
	defer server.Close()

	resp := testClient("k", server.URL).Reconcile(context.Background(), userTurn("Paris"), trips.Snapshot{})
	if resp.Question != "And the return flight?" {
		t.Fatalf("question=%q", resp.Question)
	}
	if resp.FormUpdates == nil || *resp.FormUpdates.Destination != "Paris" {
		t.Fatalf("formUpdates=%+v, want destination Paris", resp.FormUpdates)
	}
	if resp.Done {
		t.Fatal("done=true without the backend asserting it")
	}
}

func TestReconcile_MissingQuestionGetsDefault(t *testing.T) {
	t.Parallel()

	server := chatServer(t, http.StatusOK, `{"formUpdates":{"destination":"Paris"},"done":false}`, nil)
	defer server.Close()

	resp := testClient("k", server.URL).Reconcile(context.Background(), userTurn("Paris"), trips.Snapshot{})
	if resp.Question != defaultQuestion {
		t.Fatalf("question=%q, want the default acknowledgement", resp.Question)
	}
}

func TestReconcile_CompletionOnlyFromBackend(t *testing.T) {
	t.Parallel()

	// A long run of patch-bearing replies never flips done on its own.
	server := chatServer(t, http.StatusOK, `{"question":"More?","formUpdates":{"days":[{"date":"2026-03-02","type":"activity","title":"Tour"}]}}`, nil)
	defer server.Close()

	client := testClient("k", server.URL)
	for i := 0; i < 5; i++ {
		resp := client.Reconcile(context.Background(), userTurn("add a tour"), trips.Snapshot{})
		if resp.Done {
			t.Fatalf("iteration %d: done=true without explicit backend confirmation", i)
		}
	}

	confirmed := chatServer(t, http.StatusOK, `{"question":"Saved!","done":true}`, nil)
	defer confirmed.Close()
	if resp := testClient("k", confirmed.URL).Reconcile(context.Background(), userTurn("finalize it"), trips.Snapshot{}); !resp.Done {
		t.Fatal("done=false despite explicit backend confirmation")
	}
}

func TestReconcile_GroundsBackendWithSnapshotAndMemory(t *testing.T) {
	t.Parallel()

	var system string
	server := chatServer(t, http.StatusOK, `{"question":"ok","done":false}`, &system)
	defer server.Close()

	dest := "Paris"
	start := "2026-03-01"
	snapshot := trips.Snapshot{
		Destination: &dest,
		StartDate:   &start,
		Days:        []trips.DayPatch{{Date: "2026-03-02", Type: "flight", Title: "AF123"}},
	}
	messages := []Message{
		{Role: RoleUser, Content: AttachmentMessage("Hotel Lutetia check-in 2026-03-03")},
		{Role: RoleAssistant, Content: "Noted."},
		{Role: RoleUser, Content: "what else do you need?"},
	}

	testClient("k", server.URL).Reconcile(context.Background(), messages, snapshot)

	for _, want := range []string{"Destination: Paris", "Registered days (1)", "2026-03-02 flight - AF123", "MEMORY: ATTACHMENT CONTENTS", "Hotel Lutetia"} {
		if !strings.Contains(system, want) {
			t.Fatalf("system grounding is missing %q:\n%s", want, system)
		}
	}
}

func TestTruncate_NeverSplitsARune(t *testing.T) {
	t.Parallel()

	s := strings.Repeat("é", 10) // 2 bytes per rune

	if got := truncate(s, 5); got != strings.Repeat("é", 2) {
		t.Fatalf("truncate(%q, 5)=%q, want %q", s, got, strings.Repeat("é", 2))
	}
	if got := truncate(s, 20); got != s {
		t.Fatalf("truncate at exact length changed the string: %q", got)
	}
	for limit := 0; limit <= len(s); limit++ {
		if got := truncate(s, limit); !utf8.ValidString(got) {
			t.Fatalf("truncate(%q, %d)=%q is not valid UTF-8", s, limit, got)
		}
	}
}
