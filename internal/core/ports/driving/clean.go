package driving

import (
	"context"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

// CleanRequest selects the files of a clean run.
type CleanRequest struct {
	// Input is the content file. Empty selects the first content file
	// in Dir.
	Input string

	// Output is the cleaned file. Empty writes <base>.clean.json next
	// to the input.
	Output string

	// Dir is searched when Input is empty. Empty means the working directory.
	Dir string
}

// CleanService runs the cleaning workflow on content files.
type CleanService interface {
	// Clean writes a cleaned copy of a content file.
	Clean(ctx context.Context, req CleanRequest) (domain.CleanReport, error)

	// Watch cleans once and again whenever the content or rules file
	// changes, until ctx is done. Each run is reported through fn.
	Watch(ctx context.Context, req CleanRequest, fn func(domain.CleanReport, error)) error
}
