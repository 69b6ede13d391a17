package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func pdfServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		var req struct {
			PDFBase64 string `json:"pdfBase64"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		data, err := base64.StdEncoding.DecodeString(req.PDFBase64)
		if err != nil {
			t.Errorf("decode pdf payload: %v", err)
		}
		fmt.Fprintf(w, `{"text":"extracted(%s)"}`, string(data))
	}))
}

func TestExtractFile_PlainText(t *testing.T) {
	t.Parallel()

	c := NewClient("")
	res := c.ExtractFile(context.Background(), File{Name: "notes.txt", Text: "hotel voucher"})
	if res.Err != nil || res.Text != "hotel voucher" {
		t.Fatalf("res=%+v, want inline text passthrough", res)
	}

	encoded := base64.StdEncoding.EncodeToString([]byte("from bytes"))
	res = c.ExtractFile(context.Background(), File{Name: "notes.txt", DataBase64: encoded})
	if res.Err != nil || res.Text != "from bytes" {
		t.Fatalf("res=%+v, want decoded text", res)
	}
}

func TestExtractFile_UnsupportedType(t *testing.T) {
	t.Parallel()

	res := NewClient("").ExtractFile(context.Background(), File{Name: "photo.jpg"})
	if res.Err == nil {
		t.Fatal("unsupported file type was accepted")
	}
	if res.Text != "" {
		t.Fatalf("text=%q, want empty: failures never carry content", res.Text)
	}
}

func TestExtractFile_PDFUsesCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := pdfServer(t, &calls)
	defer server.Close()

	c := NewClient(server.URL)
	f := File{Name: "voucher.pdf", DataBase64: base64.StdEncoding.EncodeToString([]byte("doc"))}

	first := c.ExtractFile(context.Background(), f)
	if first.Err != nil || first.Text != "extracted(doc)" {
		t.Fatalf("first=%+v", first)
	}
	second := c.ExtractFile(context.Background(), f)
	if second.Err != nil || second.Text != first.Text {
		t.Fatalf("second=%+v", second)
	}
	if calls.Load() != 1 {
		t.Fatalf("api calls=%d, want 1 (second extraction should hit the cache)", calls.Load())
	}
}

func TestExtractFile_APIErrorIsTyped(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"extraction blew up","detail":"corrupt xref table"}`)
	}))
	defer server.Close()

	res := NewClient(server.URL).ExtractFile(context.Background(), File{
		Name:       "voucher.pdf",
		DataBase64: base64.StdEncoding.EncodeToString([]byte("doc")),
	})
	if res.Err == nil || !strings.Contains(res.Err.Error(), "corrupt xref table") {
		t.Fatalf("err=%v, want the API detail", res.Err)
	}
	if res.Text != "" {
		t.Fatalf("text=%q, want empty on failure", res.Text)
	}
}

func TestExtractAll_PreservesInputOrder(t *testing.T) {
	t.Parallel()

	server := pdfServer(t, nil)
	defer server.Close()

	c := NewClient(server.URL)
	files := []File{
		{Name: "a.pdf", DataBase64: base64.StdEncoding.EncodeToString([]byte("A"))},
		{Name: "b.txt", Text: "B"},
		{Name: "c.pdf", DataBase64: base64.StdEncoding.EncodeToString([]byte("C"))},
	}

	results := c.ExtractAll(context.Background(), files)
	if len(results) != 3 {
		t.Fatalf("len=%d, want 3", len(results))
	}
	wantNames := []string{"a.pdf", "b.txt", "c.pdf"}
	wantTexts := []string{"extracted(A)", "B", "extracted(C)"}
	for i := range results {
		if results[i].Name != wantNames[i] || results[i].Text != wantTexts[i] {
			t.Fatalf("results[%d]=%+v, want %s=%s", i, results[i], wantNames[i], wantTexts[i])
		}
	}
}

func TestJoinContents_SkipsFailures(t *testing.T) {
	t.Parallel()

	results := []Result{
		{Name: "a.txt", Text: "alpha"},
		{Name: "b.pdf", Err: fmt.Errorf("API responded 500")},
		{Name: "c.txt", Text: "gamma"},
	}

	joined := JoinContents(results)
	if strings.Contains(joined, "500") {
		t.Fatalf("joined content leaked a failure:\n%s", joined)
	}
	if !strings.Contains(joined, "--- a.txt ---\nalpha") || !strings.Contains(joined, "--- c.txt ---\ngamma") {
		t.Fatalf("joined=%q", joined)
	}
}

func TestTranscriptBlockAndFailureNotes(t *testing.T) {
	t.Parallel()

	results := []Result{
		{Name: "a.txt", Text: "alpha"},
		{Name: "b.pdf", Err: fmt.Errorf("API responded 500")},
	}

	block := TranscriptBlock(results)
	note := FailureNote("b.pdf", fmt.Errorf("API responded 500"))
	if !strings.Contains(block, note) {
		t.Fatalf("transcript block is missing the failure note:\n%s", block)
	}
	if !IsFailureNote(note) {
		t.Fatalf("IsFailureNote(%q)=false", note)
	}
	if IsFailureNote("--- a.txt ---") || IsFailureNote("[Departure] GRU 22:10") {
		t.Fatal("IsFailureNote matched ordinary content")
	}
}
