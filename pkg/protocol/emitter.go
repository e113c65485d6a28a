package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Nitrolaunch/weld/pkg/logging"
	"github.com/rs/zerolog"
)

const (
	// DefaultSentinel prefixes every protocol line
	DefaultSentinel = "%_"

	// TextPrefix prefixes plain text lines the launcher prints verbatim
	TextPrefix = "$_"
)

// Options configures an Emitter
type Options struct {
	Sentinel string
	Base64   bool
}

// Emitter serializes protocol actions to a sink, one line per action.
// Writes are fire-and-forget: failures are logged, never returned.
type Emitter struct {
	out      io.Writer
	sentinel string
	base64   bool
	logger   zerolog.Logger
}

// NewEmitter creates an emitter writing to out
func NewEmitter(out io.Writer, opts Options) *Emitter {
	sentinel := opts.Sentinel
	if sentinel == "" {
		sentinel = DefaultSentinel
	}
	return &Emitter{
		out:      out,
		sentinel: sentinel,
		base64:   opts.Base64,
		logger:   logging.GetLogger("protocol"),
	}
}

// Emit writes one action. A nil payload writes the bare kind; the Null
// marker writes the kind mapped to an explicit JSON null.
func (e *Emitter) Emit(kind Kind, payload interface{}) {
	line, err := e.encode(kind, payload)
	if err != nil {
		e.logger.Error().Err(err).Str("kind", string(kind)).Msg("Failed to encode protocol action")
		return
	}
	e.writeLine(e.sentinel + line)
}

// Text writes a plain text line for the launcher to print
func (e *Emitter) Text(text string) {
	e.writeLine(TextPrefix + text)
}

// StartProcess emits a start_process action
func (e *Emitter) StartProcess() {
	e.Emit(KindStartProcess, nil)
}

// EndProcess emits an end_process action
func (e *Emitter) EndProcess() {
	e.Emit(KindEndProcess, nil)
}

// Message emits a message action
func (e *Emitter) Message(msg Message) {
	e.Emit(KindMessage, msg)
}

// SetResult emits the terminal hook result. Pass Null for an explicit null result.
func (e *Emitter) SetResult(result interface{}) {
	if result == nil {
		result = Null
	}
	e.Emit(KindSetResult, result)
}

func (e *Emitter) encode(kind Kind, payload interface{}) (string, error) {
	var value interface{}
	switch payload.(type) {
	case nil:
		value = kind
	case nullPayload:
		value = map[Kind]interface{}{kind: nil}
	default:
		value = map[Kind]interface{}{kind: payload}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	if e.base64 {
		return base64.StdEncoding.EncodeToString(data), nil
	}
	return string(data), nil
}

func (e *Emitter) writeLine(line string) {
	if _, err := fmt.Fprintln(e.out, line); err != nil {
		e.logger.Error().Err(err).Msg("Failed to write protocol line")
	}
}
