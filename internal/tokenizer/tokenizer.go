// Package tokenizer estimates how many model tokens packaged content occupies.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4o"
	fallbackEncoding    = "cl100k_base"
	fallbackErrorFormat = "load %s encoding: %w"
)

var errMissingEncoder = errors.New("tokenizer has no encoding loaded")

// encoder is the part of *tiktoken.Tiktoken the counter needs.
type encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

// Encoding lookups; replaced in tests so no encoding tables are downloaded.
var (
	lookupModelEncoding = func(model string) (encoder, error) {
		encoding, err := tiktoken.EncodingForModel(model)
		if err != nil || encoding == nil {
			return nil, err
		}
		return encoding, nil
	}
	lookupNamedEncoding = func(name string) (encoder, error) {
		encoding, err := tiktoken.GetEncoding(name)
		if err != nil || encoding == nil {
			return nil, err
		}
		return encoding, nil
	}
)

// encodingCounter counts the token IDs a tiktoken encoding produces.
type encodingCounter struct {
	name    string
	encoder encoder
}

func (counter encodingCounter) Name() string {
	return counter.name
}

func (counter encodingCounter) CountString(input string) (int, error) {
	if counter.encoder == nil {
		return 0, errMissingEncoder
	}
	return len(counter.encoder.Encode(input, nil, nil)), nil
}

// NewCounter returns a Counter for model together with the name reported in
// summaries. Models tiktoken does not know fall back to cl100k_base, and the
// summary then names the encoding instead of the model. tiktoken-go fetches
// encoding tables on first use and caches them under TIKTOKEN_CACHE_DIR when
// that variable is set.
func NewCounter(model string) (Counter, string, error) {
	requested := strings.TrimSpace(model)
	if requested == "" {
		requested = DefaultModel
	}
	normalized := strings.ToLower(requested)

	if modelEncoder, err := lookupModelEncoding(normalized); err == nil && modelEncoder != nil {
		return encodingCounter{name: normalized, encoder: modelEncoder}, requested, nil
	}
	fallbackEncoder, err := lookupNamedEncoding(fallbackEncoding)
	if err != nil {
		return nil, "", fmt.Errorf(fallbackErrorFormat, fallbackEncoding, err)
	}
	if fallbackEncoder == nil {
		return nil, "", fmt.Errorf(fallbackErrorFormat, fallbackEncoding, errMissingEncoder)
	}
	return encodingCounter{name: fallbackEncoding, encoder: fallbackEncoder}, fallbackEncoding, nil
}
