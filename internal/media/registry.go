package media

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

const blobScheme = "blob:"

// Blob is an ephemeral upload kept in process memory.
type Blob struct {
	ContentType string
	Data        []byte
	// Claimed is set once a message owns the blob.
	Claimed bool
}

// Registry holds blob references until they are revoked. A blob is owned by
// at most one message.
type Registry struct {
	mu    sync.RWMutex
	blobs map[string]Blob
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{blobs: make(map[string]Blob)}
}

// Create stores data and returns its blob reference.
func (r *Registry) Create(contentType string, data []byte) string {
	id := uuid.NewString()

	r.mu.Lock()
	r.blobs[id] = Blob{ContentType: contentType, Data: data}
	r.mu.Unlock()

	return BlobURL(id)
}

// Lookup resolves a blob reference or a bare blob id.
func (r *Registry) Lookup(ref string) (Blob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.blobs[BlobID(ref)]
	return b, ok
}

// Claim marks the blob as owned by a message. Unknown references and blobs
// that already have an owner are rejected.
func (r *Registry) Claim(ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := BlobID(ref)
	b, ok := r.blobs[id]
	if !strings.HasPrefix(ref, blobScheme) || !ok {
		return invalid("unknown media reference", ErrInvalidAttachment)
	}
	if b.Claimed {
		return invalid("media is already attached to another message", ErrBlobInUse)
	}
	b.Claimed = true
	r.blobs[id] = b
	return nil
}

// Revoke releases a blob whether or not it is claimed. Returns true if it
// was registered.
func (r *Registry) Revoke(ref string) bool {
	if !strings.HasPrefix(ref, blobScheme) {
		return false
	}
	id := BlobID(ref)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blobs[id]; !ok {
		return false
	}
	delete(r.blobs, id)
	return true
}

// Discard releases a blob no message owns yet. Claimed blobs are kept.
func (r *Registry) Discard(ref string) bool {
	if !strings.HasPrefix(ref, blobScheme) {
		return false
	}
	id := BlobID(ref)

	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blobs[id]
	if !ok || b.Claimed {
		return false
	}
	delete(r.blobs, id)
	return true
}

// Len returns the number of live blobs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blobs)
}

// BlobURL builds a blob reference from an id.
func BlobURL(id string) string {
	return blobScheme + id
}

// BlobID strips the blob scheme from a reference.
func BlobID(ref string) string {
	return strings.TrimPrefix(ref, blobScheme)
}
