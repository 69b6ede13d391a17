package extract

import "strings"

const failureNotePrefix = "[extraction failed: "

// FailureNote renders a failed extraction as a bracketed note for display in
// the chat transcript.
func FailureNote(name string, err error) string {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return failureNotePrefix + name + ": " + reason + "]"
}

// IsFailureNote reports whether a transcript line is one of the bracketed
// failure notes. The assistant's grounding must never treat these as real
// document content.
func IsFailureNote(line string) bool {
	s := strings.TrimSpace(line)
	return strings.HasPrefix(s, failureNotePrefix) && strings.HasSuffix(s, "]")
}

// JoinContents assembles the successfully extracted texts into a single block
// with one labeled section per file, in input order. Failed files are left
// out entirely.
func JoinContents(results []Result) string {
	var blocks []string
	for _, r := range results {
		if r.Err != nil || strings.TrimSpace(r.Text) == "" {
			continue
		}
		blocks = append(blocks, "--- "+r.Name+" ---\n"+r.Text)
	}
	return strings.Join(blocks, "\n\n")
}

// TranscriptBlock is like JoinContents but keeps failed files visible as
// bracketed notes, so the user can see which vouchers did not make it.
func TranscriptBlock(results []Result) string {
	var blocks []string
	for _, r := range results {
		if r.Err != nil {
			blocks = append(blocks, "--- "+r.Name+" ---\n"+FailureNote(r.Name, r.Err))
			continue
		}
		blocks = append(blocks, "--- "+r.Name+" ---\n"+r.Text)
	}
	return strings.Join(blocks, "\n\n")
}
