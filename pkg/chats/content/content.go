// Package content defines content parts for LLM messages.
package content

// Part is a piece of content within a message.
type Part interface {
	PartKind() string
}

// Text is a plain text content part.
type Text struct {
	Text string
}

func (t Text) PartKind() string { return "text" }

// Image is an image content part, referenced by URL or embedded as raw bytes.
// When Data is set, MediaType must name the image MIME type (e.g. "image/png")
// so the bytes can be encoded for the wire.
type Image struct {
	URL       string
	Data      []byte
	MediaType string
}

func (i Image) PartKind() string { return "image" }
