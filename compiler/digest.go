package compiler

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/benjamin-wilkins/md-generator/pkg/interfaces"
)

// Digest is a content fingerprint for a resource. Identical bytes always
// produce identical digests; it is a change marker, not a security credential.
type Digest [sha256.Size]byte

// digestHexLen is the length of a digest's canonical string form.
const digestHexLen = 2 * sha256.Size

// String renders the digest as fixed-width lowercase hex, the form persisted
// on an artifact's first line.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// DigestCache decides whether a compiled artifact is still valid for its
// source by comparing content digests. The "cache" is the digest persisted as
// the artifact's leading line; no other state is kept.
type DigestCache struct {
	store interfaces.ContentStore
}

// NewDigestCache binds a digest cache to a content store.
func NewDigestCache(store interfaces.ContentStore) *DigestCache {
	return &DigestCache{store: store}
}

// DigestOf reads the resource at key and returns its digest.
func (c *DigestCache) DigestOf(ctx context.Context, key string) (Digest, error) {
	data, err := c.store.Read(ctx, key)
	if err != nil {
		return Digest{}, fmt.Errorf("digest %s: %w: %w", key, ErrUnreadable, err)
	}
	return Digest(sha256.Sum256(data)), nil
}

// IsFresh reports whether the artifact at artifactKey was produced from a
// source with the given digest. Only the artifact's leading line is
// inspected. A missing or malformed artifact is not an error; it simply
// needs a rebuild.
func (c *DigestCache) IsFresh(ctx context.Context, artifactKey string, d Digest) bool {
	head, err := c.readHead(ctx, artifactKey)
	if err != nil {
		return false
	}

	line, _, found := bytes.Cut(head, []byte("\n"))
	if !found {
		return false
	}
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) != digestHexLen {
		return false
	}
	return string(line) == d.String()
}

// readHead fetches enough leading bytes to cover the digest line. Stores that
// support prefix reads avoid loading the whole artifact.
func (c *DigestCache) readHead(ctx context.Context, key string) ([]byte, error) {
	// digest + optional \r + \n
	const headLen = digestHexLen + 2

	if pr, ok := c.store.(interfaces.PrefixReader); ok {
		return pr.ReadPrefix(ctx, key, headLen)
	}

	data, err := c.store.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(data) > headLen {
		data = data[:headLen]
	}
	return data, nil
}
