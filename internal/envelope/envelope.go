// Package envelope defines the control-message format consumed by the corky
// bot service: a positional JSON array [status, action, data] carried as the
// payload frame of a two-frame ZMQ message.
package envelope

import (
	"encoding/json"
	"fmt"
)

// Defaults for a plain diagnostic send.
const (
	DefaultStatus = "ok"
	DefaultAction = "send_message"
	DefaultText   = "Test message from Python ZMQ client"
)

// Data is the third envelope element. The receiver distinguishes a missing
// key from a null one, so every optional field must vanish entirely when
// unset; ChatID is a pointer because 0 is a representable chat ID.
type Data struct {
	Text           string `json:"text"`
	ChatID         *int64 `json:"chat_id,omitempty"`
	SubscriberList string `json:"subscriber_list,omitempty"`
	ImagePath      string `json:"image_path,omitempty"`
}

// Envelope is the [status, action, data] triple. Status and Action are
// free-form tags interpreted by the receiver.
type Envelope struct {
	Status string
	Action string
	Data   Data
}

// New returns an envelope with default status and action around the given data.
func New(data Data) Envelope {
	return Envelope{Status: DefaultStatus, Action: DefaultAction, Data: data}
}

// MarshalJSON encodes the envelope as a three-element positional array.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{e.Status, e.Action, e.Data})
}

// UnmarshalJSON accepts the positional array form. Arrays longer than three
// elements are tolerated, matching the receiver's own parser.
func (e *Envelope) UnmarshalJSON(raw []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return fmt.Errorf("envelope is not a JSON array: %w", err)
	}
	if len(parts) < 3 {
		return fmt.Errorf("envelope needs 3 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &e.Status); err != nil {
		return fmt.Errorf("envelope status: %w", err)
	}
	if err := json.Unmarshal(parts[1], &e.Action); err != nil {
		return fmt.Errorf("envelope action: %w", err)
	}
	if err := json.Unmarshal(parts[2], &e.Data); err != nil {
		return fmt.Errorf("envelope data: %w", err)
	}
	return nil
}

// Encode returns the UTF-8 JSON payload frame for the envelope.
func (e Envelope) Encode() ([]byte, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return raw, nil
}

// Decode parses a payload frame back into an envelope.
func Decode(raw []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}
