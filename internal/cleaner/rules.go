package cleaner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// LoadRules reads a rules file. A missing file yields the default rules
// and found=false; a file that does not parse fails with
// domain.ErrConfiguration.
func LoadRules(path string) (rules domain.CleanRules, found bool, err error) {
	if path == "" {
		return domain.DefaultCleanRules(), false, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.DefaultCleanRules(), false, nil
	}
	if err != nil {
		return domain.CleanRules{}, false, fmt.Errorf("%w: read %s: %v", domain.ErrConfiguration, path, err)
	}
	if err := json.Unmarshal(data, &rules); err != nil {
		return domain.CleanRules{}, true, fmt.Errorf("%w: parse %s: %w", domain.ErrConfiguration, path, err)
	}
	return rules, true, nil
}

// DumpRules writes rules as indented JSON with sorted keys.
func DumpRules(path string, rules domain.CleanRules) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(rules); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write rules: %w", err)
	}
	return nil
}
