// Package extract turns user-attached voucher files into plain text for the
// planning assistant. Text files are read directly; PDFs go through the
// pdf-extract sidecar API. Extracted text is cached so re-sending the same
// voucher in a conversation does not re-hit the API.
package extract

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// File is one attachment to extract. Text carries inline content for plain
// text files; DataBase64 carries the raw bytes for the PDF extraction API.
type File struct {
	Name       string `json:"name"`
	MimeType   string `json:"mimeType,omitempty"`
	Text       string `json:"text,omitempty"`
	DataBase64 string `json:"dataBase64,omitempty"`
}

// Result is the typed outcome of extracting one file. Text and Err are
// mutually exclusive: a failure never masquerades as document content.
type Result struct {
	Name string
	Text string
	Err  error
}

type Client struct {
	apiURL string
	http   *http.Client
	cache  *cache.Cache
}

func NewClient(apiURL string) *Client {
	return &Client{
		apiURL: strings.TrimRight(strings.TrimSpace(apiURL), "/"),
		http:   &http.Client{Timeout: 45 * time.Second},
		cache:  cache.New(24*time.Hour, time.Hour),
	}
}

// ExtractAll extracts every file. Fetches run concurrently, one per file, but
// results always come back in input order so the assembled block is
// deterministic.
func (c *Client) ExtractAll(ctx context.Context, files []File) []Result {
	results := make([]Result, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()
			results[i] = c.ExtractFile(ctx, f)
		}(i, f)
	}
	wg.Wait()
	return results
}

func (c *Client) ExtractFile(ctx context.Context, f File) Result {
	name := strings.ToLower(f.Name)
	switch {
	case strings.HasSuffix(name, ".txt") || f.MimeType == "text/plain":
		text, err := c.plainText(f)
		return Result{Name: f.Name, Text: text, Err: err}
	case strings.HasSuffix(name, ".pdf") || f.MimeType == "application/pdf":
		text, err := c.pdfText(ctx, f)
		return Result{Name: f.Name, Text: text, Err: err}
	default:
		return Result{Name: f.Name, Err: fmt.Errorf("unsupported file type %q, use .txt or .pdf", f.Name)}
	}
}

func (c *Client) plainText(f File) (string, error) {
	if f.Text != "" {
		return f.Text, nil
	}
	if f.DataBase64 == "" {
		return "", errors.New("empty text file")
	}
	data, err := base64.StdEncoding.DecodeString(f.DataBase64)
	if err != nil {
		return "", fmt.Errorf("decode file data: %w", err)
	}
	return string(data), nil
}

func (c *Client) pdfText(ctx context.Context, f File) (string, error) {
	if f.DataBase64 == "" {
		return "", errors.New("empty PDF file")
	}
	key := c.cacheKey(f)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(string), nil
	}
	if c.apiURL == "" {
		return "", errors.New("PDF extraction API is not configured (set PDF_EXTRACT_API_URL)")
	}

	body, err := json.Marshal(map[string]string{"pdfBase64": f.DataBase64})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("pdf extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", parseAPIError(resp)
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode extraction response: %w", err)
	}
	text := strings.TrimSpace(payload.Text)
	if text == "" {
		return "", errors.New("no text could be extracted from the PDF")
	}

	c.cache.Set(key, text, cache.DefaultExpiration)
	return text, nil
}

func (c *Client) cacheKey(f File) string {
	sum := sha256.Sum256([]byte(f.DataBase64))
	return f.Name + ":" + hex.EncodeToString(sum[:8])
}

func parseAPIError(resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		return fmt.Errorf("pdf extraction api error: %s", resp.Status)
	}
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Detail != "" {
			return errors.New(payload.Detail)
		}
		if payload.Error != "" {
			return errors.New(payload.Error)
		}
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg != "" {
		return errors.New(msg)
	}
	return fmt.Errorf("pdf extraction api error: %s", resp.Status)
}
