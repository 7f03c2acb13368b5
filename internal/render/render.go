package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"logfetch/internal/domain"
)

const (
	// messageBudget caps a raw (non-extracted) display message in runes.
	messageBudget = 120
	ellipsis      = "..."

	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// displayFields are checked in order against a JSON object payload.
var displayFields = [...]string{"log", "message", "msg"}

// displaySource says how a display message was derived from the raw payload.
type displaySource int

const (
	// sourceExtracted: a string field pulled from a JSON payload, shown whole.
	sourceExtracted displaySource = iota
	// sourceClipped: the raw payload, clipped to the message budget.
	sourceClipped
)

// Renderer writes the fetch summary and the event table to a single writer.
type Renderer struct {
	w io.Writer
}

func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Header prints the window/group/pattern block shown before any events.
func (r *Renderer) Header(group, windowLabel, pattern string, win domain.TimeWindow) {
	fmt.Fprintf(r.w, "Log group : %s\n", group)
	fmt.Fprintf(r.w, "Window    : %s (%s .. %s)\n", windowLabel, formatMillis(win.StartMS), formatMillis(win.EndMS))
	if pattern != "" {
		fmt.Fprintf(r.w, "Pattern   : %s\n", pattern)
	}
	fmt.Fprintln(r.w)
}

// Records prints the total count and one row per record, in order.
func (r *Renderer) Records(records []domain.LogRecord) {
	fmt.Fprintf(r.w, "%d event(s) retrieved\n", len(records))
	if len(records) == 0 {
		return
	}
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "%-24s %-24s %s\n", "Event time", "Ingestion time", "Message")
	for _, rec := range records {
		ingestion := "-"
		if rec.IngestionTimeMS > 0 {
			ingestion = formatMillis(rec.IngestionTimeMS)
		}
		text, _ := deriveDisplay(rec.Message)
		fmt.Fprintf(r.w, "%-24s %-24s %s\n", formatMillis(rec.TimestampMS), ingestion, text)
	}
}

// Groups prints one catalog entry per line.
func (r *Renderer) Groups(groups []domain.LogGroup) {
	for _, g := range groups {
		fmt.Fprintln(r.w, g.Name)
	}
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(timestampLayout)
}

// deriveDisplay turns a raw event payload into its display text. A JSON
// object with a string-valued field from displayFields is extracted whole;
// anything else is the raw payload clipped to the message budget.
func deriveDisplay(raw string) (string, displaySource) {
	raw = strings.TrimRight(raw, "\r\n")
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err == nil {
		for _, field := range displayFields {
			if text, ok := payload[field].(string); ok {
				return text, sourceExtracted
			}
		}
	}
	return clip(raw), sourceClipped
}

func clip(s string) string {
	runes := []rune(s)
	if len(runes) <= messageBudget {
		return s
	}
	return string(runes[:messageBudget-len(ellipsis)]) + ellipsis
}
