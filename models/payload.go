package models

import "fmt"

// PayloadKind identifies which variant of a Payload is active.
type PayloadKind string

const (
	PayloadKindText  PayloadKind = "text"
	PayloadKindImage PayloadKind = "image"
)

// MinPayloadLength and MaxPayloadLength bound the content of both payload variants.
const (
	MinPayloadLength = 1
	MaxPayloadLength = 1000
)

// Payload is the content submitted for moderation. Exactly one variant is
// active, identified by Kind. Construct with NewTextPayload or NewImagePayload;
// a zero Payload is invalid.
type Payload struct {
	kind    PayloadKind
	content string
}

// NewTextPayload creates a text payload, validating the length bounds.
func NewTextPayload(text string) (Payload, error) {
	if err := validatePayloadContent(text); err != nil {
		return Payload{}, fmt.Errorf("text payload: %w", err)
	}
	return Payload{kind: PayloadKindText, content: text}, nil
}

// NewImagePayload creates an image payload from string-encoded bytes,
// validating the length bounds.
func NewImagePayload(image string) (Payload, error) {
	if err := validatePayloadContent(image); err != nil {
		return Payload{}, fmt.Errorf("image payload: %w", err)
	}
	return Payload{kind: PayloadKindImage, content: image}, nil
}

func validatePayloadContent(content string) error {
	if len(content) < MinPayloadLength {
		return fmt.Errorf("content must be at least %d character", MinPayloadLength)
	}
	if len(content) > MaxPayloadLength {
		return fmt.Errorf("content must be at most %d characters", MaxPayloadLength)
	}
	return nil
}

// Kind returns the active variant tag.
func (p Payload) Kind() PayloadKind {
	return p.kind
}

// Content returns the raw content of the active variant.
func (p Payload) Content() string {
	return p.content
}

// IsZero reports whether the payload was not constructed through a
// New*Payload constructor.
func (p Payload) IsZero() bool {
	return p.kind == ""
}
