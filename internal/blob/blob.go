// Package blob turns object storage keys into URLs clients can fetch.
package blob

import (
	"context"
	"fmt"
	"strings"

	"soundshelf/internal/apperr"
)

var (
	// ErrObjectNotFound is returned when the key does not exist in the bucket.
	ErrObjectNotFound = fmt.Errorf("%w: object not found", apperr.ErrResolver)
	// ErrUnavailable is returned when the object store could not be reached.
	ErrUnavailable = fmt.Errorf("%w: object store unavailable", apperr.ErrResolver)
)

// Resolver produces a retrieval URL for a storage key.
type Resolver interface {
	Resolve(ctx context.Context, key string) (string, error)
}

// PublicURL builds links by prefixing keys with a public bucket URL. It does
// not check that the object exists.
type PublicURL struct {
	base string
}

// NewPublicURL returns a resolver rooted at base.
func NewPublicURL(base string) *PublicURL {
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &PublicURL{base: base}
}

func (p *PublicURL) Resolve(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrObjectNotFound)
	}
	return p.base + strings.TrimPrefix(key, "/"), nil
}
