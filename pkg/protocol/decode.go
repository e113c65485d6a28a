package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Action is a decoded protocol line
type Action struct {
	Kind    Kind
	Payload json.RawMessage
	// HasPayload distinguishes {"set_result":null} from "set_result"
	HasPayload bool
}

// IsNull reports whether the action carries an explicit null payload
func (a Action) IsNull() bool {
	return a.HasPayload && string(a.Payload) == "null"
}

// Decode parses a protocol line the way the launcher does. ok is false for
// lines that do not carry the sentinel, which the host ignores.
func Decode(line, sentinel string, useBase64 bool) (action Action, ok bool, err error) {
	if sentinel == "" {
		sentinel = DefaultSentinel
	}
	body, found := strings.CutPrefix(strings.TrimRight(line, "\r\n"), sentinel)
	if !found {
		return Action{}, false, nil
	}

	data := []byte(body)
	if useBase64 {
		data, err = base64.StdEncoding.DecodeString(body)
		if err != nil {
			return Action{}, true, fmt.Errorf("invalid base64 protocol line: %w", err)
		}
	}

	var kind string
	if err := json.Unmarshal(data, &kind); err == nil {
		return Action{Kind: Kind(kind)}, true, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return Action{}, true, fmt.Errorf("invalid protocol line: %w", err)
	}
	if len(obj) != 1 {
		return Action{}, true, fmt.Errorf("protocol object must have exactly one key, got %d", len(obj))
	}
	for k, v := range obj {
		action = Action{Kind: Kind(k), Payload: v, HasPayload: true}
	}
	return action, true, nil
}
