package zai

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/divsmith/llm-zai/pkg/chats/content"
	"github.com/divsmith/llm-zai/pkg/chats/message"
	"github.com/divsmith/llm-zai/pkg/models"
)

// --- request wire types ---

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Temperature *float64     `json:"temperature,omitempty"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	TopP        *float64     `json:"top_p,omitempty"`
	Stream      bool         `json:"stream,omitempty"`
}

// apiMessage carries either a plain string or a multi-part array in Content,
// per the vendor's two accepted content forms.
type apiMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type apiContentPart struct {
	Type     string       `json:"type"`
	Text     string       `json:"text,omitempty"`
	ImageURL *apiImageURL `json:"image_url,omitempty"`
}

type apiImageURL struct {
	URL string `json:"url"`
}

// --- translation ---

// buildMessages maps an ordered turn sequence onto the vendor's message
// array. Each turn becomes one wire message with the same role, except that
// consecutive system turns are merged into one (the API rejects repeated
// top-level system messages). The order of all other turns is preserved
// exactly.
func buildMessages(msgs []message.Message, v models.Variant) ([]apiMessage, error) {
	var out []apiMessage

	for _, m := range msgs {
		if !m.Role.Valid() {
			return nil, fmt.Errorf("invalid role %q", m.Role)
		}

		if m.HasImages() {
			if !v.SupportsImages {
				return nil, &CapabilityError{Model: v.ID, Capability: "images"}
			}

			parts, err := buildParts(m)
			if err != nil {
				return nil, err
			}

			out = append(out, apiMessage{Role: m.Role.String(), Content: parts})
			continue
		}

		text := m.TextContent()

		// Merge runs of system turns into the previous system message.
		if m.Role.String() == "system" && len(out) > 0 {
			last := &out[len(out)-1]
			if prev, ok := last.Content.(string); ok && last.Role == "system" {
				last.Content = prev + "\n\n" + text
				continue
			}
		}

		out = append(out, apiMessage{Role: m.Role.String(), Content: text})
	}

	return out, nil
}

// buildParts produces the multi-part content form for a turn that carries
// image attachments: the text first, then each image in its original order.
func buildParts(m message.Message) ([]apiContentPart, error) {
	var parts []apiContentPart

	if text := m.TextContent(); text != "" {
		parts = append(parts, apiContentPart{Type: "text", Text: text})
	}

	for _, img := range m.Images() {
		url, err := encodeImage(img)
		if err != nil {
			return nil, err
		}
		parts = append(parts, apiContentPart{
			Type:     "image_url",
			ImageURL: &apiImageURL{URL: url},
		})
	}

	return parts, nil
}

// encodeImage renders an image part in one of the vendor's accepted forms:
// an existing URL reference passes through untouched, raw bytes become a
// base64 data URI. The choice is a pure function of the input, so identical
// turns always encode identically.
func encodeImage(img content.Image) (string, error) {
	if img.URL != "" {
		return img.URL, nil
	}

	if len(img.Data) == 0 {
		return "", fmt.Errorf("image part has neither URL nor data")
	}

	mediaType := img.MediaType
	if mediaType == "" {
		mediaType = http.DetectContentType(img.Data)
	}

	return fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(img.Data)), nil
}
