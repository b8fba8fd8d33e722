package placeholder

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a context from a JSON file: a flat object of string values.
// A missing file is not an error; it yields an empty context, so a manual dir
// without any context files still builds.
func LoadFile(path string) (Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Context{}, nil
		}
		return nil, fmt.Errorf("read context %s: %w", path, err)
	}

	var ctx Context
	if err := json.Unmarshal(data, &ctx); err != nil {
		return nil, fmt.Errorf("parse context %s: %w", path, err)
	}
	return ctx, nil
}
