package cleaner

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// Decode reads a content document as a generic JSON tree. Numbers keep
// their literal form.
func Decode(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrContent, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", domain.ErrContent)
	}
	return doc, nil
}

// Encode writes doc indented by four spaces with sorted keys and without
// escaping of HTML or non-ASCII characters.
func Encode(w io.Writer, doc map[string]any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
