package zai

import (
	"fmt"
	"math"
)

// Options holds per-request generation parameters. Nil fields are omitted
// from the request so the vendor applies its documented defaults
// (temperature 1.0).
type Options struct {
	// Temperature controls randomness in the output, 0.0 to 2.0.
	Temperature *float64

	// MaxTokens caps the number of tokens to generate. When nil, the
	// model variant's default limit is applied.
	MaxTokens *int

	// TopP is the nucleus sampling parameter, 0.0 to 1.0.
	TopP *float64

	// Stream requests incremental delivery of the response.
	Stream bool
}

// Validate checks all set fields against their constraints. It returns a
// *ValidationError naming the offending field, before any network call.
func (o Options) Validate() error {
	if o.Temperature != nil && (*o.Temperature < 0.0 || *o.Temperature > 2.0) {
		return &ValidationError{Field: "temperature", Reason: "must be between 0.0 and 2.0"}
	}
	if o.MaxTokens != nil && *o.MaxTokens <= 0 {
		return &ValidationError{Field: "max_tokens", Reason: "must be a positive integer"}
	}
	if o.TopP != nil && (*o.TopP < 0.0 || *o.TopP > 1.0) {
		return &ValidationError{Field: "top_p", Reason: "must be between 0.0 and 1.0"}
	}
	return nil
}

// ParseOptions builds validated Options from raw host-supplied values.
// Unrecognized keys are rejected, not silently dropped, so a typo'd flag
// always surfaces.
func ParseOptions(raw map[string]any) (Options, error) {
	var opts Options

	for key, val := range raw {
		switch key {
		case "temperature":
			f, err := toFloat(key, val)
			if err != nil {
				return Options{}, err
			}
			opts.Temperature = &f

		case "max_tokens":
			n, err := toInt(key, val)
			if err != nil {
				return Options{}, err
			}
			opts.MaxTokens = &n

		case "top_p":
			f, err := toFloat(key, val)
			if err != nil {
				return Options{}, err
			}
			opts.TopP = &f

		case "stream":
			b, ok := val.(bool)
			if !ok {
				return Options{}, &ValidationError{Field: key, Reason: fmt.Sprintf("expected a boolean, got %T", val)}
			}
			opts.Stream = b

		default:
			return Options{}, &ValidationError{Field: key, Reason: "unknown option"}
		}
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}

	return opts, nil
}

func toFloat(field string, val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	}
	return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("expected a number, got %T", val)}
}

func toInt(field string, val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		// JSON numbers decode as float64; accept only whole values.
		if v != math.Trunc(v) {
			return 0, &ValidationError{Field: field, Reason: "expected an integer"}
		}
		return int(v), nil
	}
	return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("expected an integer, got %T", val)}
}
