package weld

import (
	"encoding/json"
	"fmt"
)

type tagFile struct {
	Replace bool              `json:"replace,omitempty"`
	Values  []json.RawMessage `json:"values"`
}

type tagEntry struct {
	ID string `json:"id"`
}

// mergeTags unions the values of several tag files in order. A replacing
// file drops the values before it and keeps the merged tag replacing.
func mergeTags(contents [][]byte) ([]byte, error) {
	var values []json.RawMessage
	seen := map[string]bool{}
	replace := false

	for i, data := range contents {
		var tag tagFile
		if err := json.Unmarshal(data, &tag); err != nil {
			return nil, fmt.Errorf("tag file %d: %w", i, err)
		}
		if tag.Replace {
			replace = true
			values = nil
			seen = map[string]bool{}
		}
		for _, v := range tag.Values {
			key := tagKey(v)
			if seen[key] {
				continue
			}
			seen[key] = true
			values = append(values, v)
		}
	}

	if values == nil {
		values = []json.RawMessage{}
	}
	return json.MarshalIndent(tagFile{Replace: replace, Values: values}, "", "  ")
}

// tagKey identifies a tag value: either "ns:id" or {"id": "ns:id", ...}
func tagKey(v json.RawMessage) string {
	var id string
	if err := json.Unmarshal(v, &id); err == nil {
		return id
	}
	var obj tagEntry
	if err := json.Unmarshal(v, &obj); err == nil && obj.ID != "" {
		return obj.ID
	}
	return string(v)
}

// mergeLang merges translation objects key by key, later files winning
func mergeLang(contents [][]byte) ([]byte, error) {
	merged := map[string]json.RawMessage{}
	for i, data := range contents {
		var lang map[string]json.RawMessage
		if err := json.Unmarshal(data, &lang); err != nil {
			return nil, fmt.Errorf("language file %d: %w", i, err)
		}
		for k, v := range lang {
			merged[k] = v
		}
	}
	return json.MarshalIndent(merged, "", "  ")
}
