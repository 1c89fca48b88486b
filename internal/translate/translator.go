// Package translate sends plain subtitle text to a machine translation
// service. The only contract toward callers is index-for-index
// correspondence: one translated string per input string, same order.
package translate

import "context"

// Translator converts a batch of plain-text strings from source to target
// language. Implementations return exactly one result per input, in input
// order. A source of "auto" asks the service to detect the language.
type Translator interface {
	Translate(ctx context.Context, texts []string, source, target string) ([]string, error)
}
