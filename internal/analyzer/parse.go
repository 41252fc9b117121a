package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spacesedan/stockdigest/internal/models"
)

// CleanResponse strips the markdown code fences Gemini wraps JSON in even
// when told not to, and trims to the outermost JSON array.
func CleanResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	// Some responses lead with prose before the array.
	if start := strings.Index(cleaned, "["); start > 0 {
		if end := strings.LastIndex(cleaned, "]"); end > start {
			cleaned = cleaned[start : end+1]
		}
	}

	return cleaned
}

// parseBatchResponse unmarshals the per-holding result array. A parse
// failure is a hard failure for the batch, never a retry trigger.
func parseBatchResponse(raw string) ([]models.AnalysisResult, error) {
	cleaned := CleanResponse(raw)

	var results []models.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &results); err != nil {
		return nil, fmt.Errorf("parsing analysis response: %w", err)
	}

	return results, nil
}
