package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// LoadSets reads a JSONC file holding the raw key sets as an array of strings:
//
//	[
//	  "1 2 3 4 5 6 7 8 9 10", // set 1
//	  ...
//	]
func LoadSets(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from user-supplied config
	if err != nil {
		return nil, fmt.Errorf("reading key sets file %q: %w", path, err)
	}

	var sets []string
	if err := json.Unmarshal(jsonc.ToJSONInPlace(data), &sets); err != nil {
		return nil, fmt.Errorf("parsing key sets file %q: %w", path, err)
	}

	if len(sets) == 0 {
		return nil, fmt.Errorf("key sets file %q: %w", path, ErrNoKeySets)
	}

	return sets, nil
}
