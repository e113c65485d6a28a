package protocol

import (
	"encoding/json"
)

// Kind is the name of a protocol action
type Kind string

const (
	KindStartProcess Kind = "start_process"
	KindEndProcess   Kind = "end_process"
	KindStartSection Kind = "start_section"
	KindEndSection   Kind = "end_section"
	KindMessage      Kind = "message"
	KindSetResult    Kind = "set_result"
	KindSetError     Kind = "set_error"
)

// Level is the importance the launcher gives a message
type Level string

const (
	LevelImportant Level = "important"
	LevelExtra     Level = "extra"
	LevelDebug     Level = "debug"
	LevelTrace     Level = "trace"
)

// Variant selects how the launcher displays message contents
type Variant string

const (
	VariantSimple       Variant = "Simple"
	VariantSuccess      Variant = "Success"
	VariantWarning      Variant = "Warning"
	VariantError        Variant = "Error"
	VariantStartProcess Variant = "StartProcess"
)

// Contents is a single-variant message body, encoded as {"<Variant>": "<text>"}
type Contents struct {
	Variant Variant
	Text    string
}

// MarshalJSON implements json.Marshaler
func (c Contents) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[Variant]string{c.Variant: c.Text})
}

// Message is the payload of a "message" action
type Message struct {
	Contents Contents `json:"contents"`
	Level    Level    `json:"level"`
}

// NewMessage builds an important message of the given variant
func NewMessage(variant Variant, text string) Message {
	return Message{
		Contents: Contents{Variant: variant, Text: text},
		Level:    LevelImportant,
	}
}

// WithLevel returns a copy of m with a different level
func (m Message) WithLevel(level Level) Message {
	m.Level = level
	return m
}

type nullPayload struct{}

// Null is the explicit-null payload marker. Emitting it writes {"kind":null},
// which is distinct from emitting a kind with no payload at all.
var Null = nullPayload{}
