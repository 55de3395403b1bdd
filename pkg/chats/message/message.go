// Package message defines a single conversation turn: a role plus content parts.
package message

import (
	"github.com/divsmith/llm-zai/pkg/chats/content"
	"github.com/divsmith/llm-zai/pkg/chats/role"
)

// Message is one turn in a conversation. Parts are ordered; their order is
// preserved through translation to the wire format.
type Message struct {
	Role  role.Role
	Parts []content.Part
}

// New creates a Message with the given role and parts.
func New(r role.Role, parts ...content.Part) Message {
	return Message{Role: r, Parts: parts}
}

// NewText creates a Message with a single text part.
func NewText(r role.Role, text string) Message {
	return New(r, content.Text{Text: text})
}

// TextContent concatenates all text parts of the message.
func (m Message) TextContent() string {
	var out string
	for _, p := range m.Parts {
		if t, ok := p.(content.Text); ok {
			out += t.Text
		}
	}
	return out
}

// Images returns all image parts of the message in order.
func (m Message) Images() []content.Image {
	var out []content.Image
	for _, p := range m.Parts {
		if img, ok := p.(content.Image); ok {
			out = append(out, img)
		}
	}
	return out
}

// HasImages reports whether the message carries at least one image part.
func (m Message) HasImages() bool {
	for _, p := range m.Parts {
		if _, ok := p.(content.Image); ok {
			return true
		}
	}
	return false
}
