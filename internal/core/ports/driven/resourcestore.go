package driven

import (
	"github.com/custodia-labs/peek-cli/internal/core/domain"
)

// ResourceStore owns transient byte-backed resources. A resource is
// created when binary content is fetched and must be released when the
// preview session closes or a newer fetch supersedes it; failure to
// release leaks disk space.
type ResourceStore interface {
	// Create materialises content as a transient resource named after
	// the original file.
	Create(fileName string, content []byte) (*domain.TransientResource, error)

	// Release removes the resource with the given ID. Releasing an
	// unknown or already-released ID is a no-op: release is idempotent.
	Release(id string) error

	// ReleaseAll removes every resource the store still owns.
	ReleaseAll() error
}
