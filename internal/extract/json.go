package extract

import (
	"encoding/json"
	"fmt"
	"sort"
)

// extractJSON validates and pretty-prints JSON content so nested values become
// searchable text. Top-level object keys are recorded as metadata.
func extractJSON(content []byte) (*Result, error) {
	var data interface{}
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON file: %w", err)
	}
	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("re-encode JSON: %w", err)
	}

	keys := []string{}
	if obj, ok := data.(map[string]interface{}); ok {
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	return &Result{
		Content: string(pretty),
		Type:    "json",
		Metadata: map[string]interface{}{
			"keys": keys,
		},
	}, nil
}
