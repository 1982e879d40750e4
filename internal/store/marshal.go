package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/switchboard/internal/game"
)

// marshalJSON encodes v as compact JSON TEXT without HTML escaping, so
// names like "R&D" are stored as written.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

func marshalCells(cells []game.Cell) (string, error) {
	data, err := marshalJSON(cells)
	if err != nil {
		return "", fmt.Errorf("marshal board: %w", err)
	}
	return data, nil
}

func unmarshalCells(data string) ([]game.Cell, error) {
	var cells []game.Cell
	if err := json.Unmarshal([]byte(data), &cells); err != nil {
		return nil, fmt.Errorf("unmarshal board: %w", err)
	}
	return cells, nil
}

func marshalNames(names []string) (string, error) {
	if len(names) == 0 {
		return "[]", nil
	}
	data, err := marshalJSON(names)
	if err != nil {
		return "", fmt.Errorf("marshal names: %w", err)
	}
	return data, nil
}

func unmarshalNames(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("unmarshal names: %w", err)
	}
	return names, nil
}
