package agent

import (
	"strings"
	"unicode/utf8"

	"backend/extract"
)

// AttachmentMarker labels the voucher text block inside a user message. The
// text after the marker is treated as authoritative memory: facts found there
// must not be asked for again.
const AttachmentMarker = "--- Attachment contents ---"

const attachmentMemoryLimit = 14000

// AttachmentMessage builds the user turn that carries extracted voucher text
// into the conversation.
func AttachmentMessage(content string) string {
	return "Use the contents of my attachments below to build the trip itinerary. " +
		"Extract flights, hotels, dates and activities. Ask about anything missing or ambiguous.\n\n" +
		AttachmentMarker + "\n\n" + content
}

// attachmentMemory finds the most recent user turn carrying attachment
// content and returns its block, newest first, bounded to the most recent
// attachmentMemoryLimit characters. The tail is kept rather than the head:
// the latest vouchers are the ones the next questions are about.
func attachmentMemory(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != RoleUser {
			continue
		}
		content := messages[i].Content
		idx := strings.Index(content, AttachmentMarker)
		if idx == -1 && !strings.Contains(content, "Attachment contents") {
			continue
		}
		text := content
		if idx >= 0 {
			text = content[idx+len(AttachmentMarker):]
		}
		text = dropFailureNotes(text)
		if text == "" {
			continue
		}
		return tail(text, attachmentMemoryLimit)
	}
	return ""
}

// dropFailureNotes removes bracketed extraction-error lines so the model
// never mines facts out of an error message.
func dropFailureNotes(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if extract.IsFailureNote(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func tail(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := len(s) - limit
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}
