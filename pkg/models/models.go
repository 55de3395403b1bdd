// Package models declares the fixed set of Z.AI GLM model variants and their
// capabilities. The table is built once and never mutated; lookups are exact,
// case-sensitive matches on the canonical ID or an alias.
package models

import "fmt"

// Variant describes one named Z.AI model: its canonical ID as exposed to the
// host, the upstream name sent on the wire, display aliases, capability flags,
// and generation defaults.
type Variant struct {
	ID                string   // Canonical identifier (e.g. "zai-glm-4.6").
	Upstream          string   // Model name sent to the API (e.g. "glm-4.6").
	Aliases           []string // Alternate lookup names.
	SupportsImages    bool     // Accepts image content parts.
	SupportsStreaming bool     // Accepts stream=true on chat completions.
	DefaultMaxTokens  int      // Default generation limit when the caller sets none.
}

// UnknownModelError is returned when a lookup does not match any variant's ID
// or alias. There is no fallback to a default model.
type UnknownModelError struct {
	Name string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q", e.Name)
}

// variants is the process-wide, read-only model table.
var variants = []Variant{
	{
		ID:                "zai-glm-4.6",
		Upstream:          "glm-4.6",
		Aliases:           []string{"glm-4.6"},
		SupportsStreaming: true,
		DefaultMaxTokens:  4096,
	},
	{
		ID:                "zai-glm-4.5",
		Upstream:          "glm-4.5",
		Aliases:           []string{"glm-4.5"},
		SupportsStreaming: true,
		DefaultMaxTokens:  4096,
	},
	{
		ID:                "zai-glm-4.5-air",
		Upstream:          "glm-4.5-air",
		Aliases:           []string{"glm-4.5-air"},
		SupportsStreaming: true,
		DefaultMaxTokens:  4096,
	},
	{
		ID:                "zai-glm-4.5v",
		Upstream:          "glm-4.5v",
		Aliases:           []string{"glm-4.5v"},
		SupportsImages:    true,
		SupportsStreaming: true,
		DefaultMaxTokens:  4096,
	},
	{
		ID:                "zai-glm-4-32b",
		Upstream:          "glm-4-32b",
		Aliases:           []string{"glm-4-32b", "glm-4-32b-0414-128k"},
		SupportsStreaming: true,
		DefaultMaxTokens:  8192,
	},
	{
		// The vendor contract for the coder model is unverified for
		// streaming, so it stays opt-out until confirmed.
		ID:               "zai-coder",
		Upstream:         "coder",
		Aliases:          []string{"coder", "zai-coder-llm"},
		DefaultMaxTokens: 4096,
	},
}

// All returns the full variant table in declaration order.
func All() []Variant {
	cp := make([]Variant, len(variants))
	copy(cp, variants)
	return cp
}

// Lookup resolves a canonical ID or alias to its Variant. Matching is
// case-sensitive and exact; unknown names return *UnknownModelError.
func Lookup(name string) (Variant, error) {
	for _, v := range variants {
		if v.ID == name {
			return v, nil
		}
		for _, a := range v.Aliases {
			if a == name {
				return v, nil
			}
		}
	}
	return Variant{}, &UnknownModelError{Name: name}
}
