package render

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tiliavir/daily-work-journal/internal/journal"
)

// Payload is the JSON output.
type Payload struct {
	Journal     journal.Document `json:"journal"`
	Context     journal.Context  `json:"context"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

func formatJSON(doc journal.Document, c journal.Context) (string, error) {
	if doc == nil {
		doc = journal.Document{}
	}
	data, err := json.MarshalIndent(Payload{Journal: doc, Context: c, GeneratedAt: c.Now}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(data) + "\n", nil
}

// DecodeJSON parses JSON output back into its payload.
func DecodeJSON(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("decode json: %w", err)
	}
	return p, nil
}
