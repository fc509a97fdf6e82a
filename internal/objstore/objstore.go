// Package objstore abstracts durable object storage for uploaded content.
package objstore

import "context"

// Store writes, copies, and deletes content objects. Put and Copy return a
// URL suitable for indefinite reuse; revocation of access happens at the
// record level, never at the object level.
type Store interface {
	// Put stores the whole body under key and makes it publicly readable.
	// The write is all-or-nothing: a failed Put leaves no readable object.
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)

	// Copy duplicates an existing object under a new key (the source object
	// stays in place) and returns the new object's URL.
	Copy(ctx context.Context, srcKey, dstKey string) (string, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}
