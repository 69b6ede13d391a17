package routes

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"backend/agent"
	"backend/extract"
)

type extractRequest struct {
	Files []extract.File `json:"files"`
}

type extractFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type extractResponse struct {
	// Content is the joined text of the successful extractions, the block
	// that feeds the assistant's attachment memory.
	Content string `json:"content"`
	// Message is the ready-to-send user turn embedding Content behind the
	// attachment marker.
	Message  string           `json:"message"`
	Failures []extractFailure `json:"failures,omitempty"`
}

// ExtractAttachments extracts text from the uploaded voucher files. Files are
// processed concurrently but reported in input order, and failures are listed
// separately instead of being smuggled into the content.
func ExtractAttachments(client *extract.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req extractRequest
		if err := e.BindBody(&req); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid request body",
			})
		}
		if len(req.Files) == 0 {
			return e.JSON(http.StatusBadRequest, map[string]string{
				"error": "at least one file is required",
			})
		}

		results := client.ExtractAll(e.Request.Context(), req.Files)

		resp := extractResponse{Content: extract.JoinContents(results)}
		for _, r := range results {
			if r.Err != nil {
				e.App.Logger().Warn("attachment extraction failed", "file", r.Name, "error", r.Err)
				resp.Failures = append(resp.Failures, extractFailure{Name: r.Name, Reason: r.Err.Error()})
			}
		}
		if resp.Content != "" {
			resp.Message = agent.AttachmentMessage(extract.TranscriptBlock(results))
		}

		return e.JSON(http.StatusOK, resp)
	}
}
