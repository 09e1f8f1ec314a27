// Package fetcher implements the catalog fetch channel: rate-limited
// HTTP GETs with rotating client identities and local retry.
package fetcher

import (
	"context"
	"strings"
)

// Payload is a raw catalog response. Adapters decide how to extract
// products from it based on the reported content type.
type Payload struct {
	Body        []byte
	ContentType string
	StatusCode  int
}

// IsJSON reports whether the payload looks like structured data rather
// than markup. Catalog endpoints flip between the two without notice, so
// the body is sniffed when the header is missing or generic.
func (p *Payload) IsJSON() bool {
	if strings.Contains(p.ContentType, "application/json") {
		return true
	}
	trimmed := strings.TrimLeft(string(p.Body), " \t\r\n")
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

// Fetcher downloads a single URL from an external catalog.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Payload, error)
}
