package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Encoder maps a categorical label to the integer code it was assigned
// during training: its index in the fitted vocabulary.
type Encoder struct {
	classes []string
	index   map[string]int
}

func NewEncoder(classes []string) *Encoder {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	return &Encoder{classes: classes, index: index}
}

// LoadEncoder reads a vocabulary stored either as a JSON array or as an
// object with a "classes" array.
func LoadEncoder(path string) (*Encoder, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encoder: %w", err)
	}

	var classes []string
	if err := json.Unmarshal(raw, &classes); err != nil {
		var wrapped struct {
			Classes []string `json:"classes"`
		}
		if err2 := json.Unmarshal(raw, &wrapped); err2 != nil {
			return nil, fmt.Errorf("failed to parse encoder %s: %w", path, err)
		}
		classes = wrapped.Classes
	}

	if len(classes) == 0 {
		return nil, fmt.Errorf("encoder %s has an empty vocabulary", path)
	}
	return NewEncoder(classes), nil
}

func (e *Encoder) Transform(label string) (int, error) {
	code, ok := e.index[strings.TrimSpace(label)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return code, nil
}

func (e *Encoder) Classes() []string { return e.classes }
