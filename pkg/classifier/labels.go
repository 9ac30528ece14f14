package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Labels is the closed class vocabulary. The position of a name is its
// class index, so the slice is never sorted.
type Labels []string

func LoadLabels(path string) (Labels, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels %s: %w", path, err)
	}
	labels, err := ParseLabels(b)
	if err != nil {
		return nil, fmt.Errorf("labels %s: %w", path, err)
	}
	return labels, nil
}

func ParseLabels(b []byte) (Labels, error) {
	var labels Labels
	if err := json.Unmarshal(b, &labels); err != nil {
		return nil, fmt.Errorf("decode label array: %w", err)
	}
	if len(labels) == 0 {
		return nil, errors.New("label vocabulary is empty")
	}
	return labels, nil
}
