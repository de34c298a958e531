// Package distcache maintains a local filesystem replica of completed
// index files (and their optional COSE seals) fetched from blob storage,
// keyed by trace identity. One build farm produces an index per trace;
// many browser-UI instances read the same index repeatedly, so a shared
// local cache avoids re-downloading it on every query session.
//
// Grounded on massifs/logdircache.go's LogDirCache shape (entries map
// keyed by directory, lazily populated, never invalidated except by
// explicit eviction), simplified for this repo's one-file-per-trace index
// instead of the teacher's massif-sequence-per-tenant layout.
package distcache

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobDownloader fetches the blob at blobPath into the local file at
// localPath. Satisfied in production by an azureDownloader wrapping
// *azblob.Client; satisfied in tests by a fake that writes fixed bytes,
// the same seam massifs/logdircache.go gets from its Opener interface.
type BlobDownloader interface {
	DownloadFile(ctx context.Context, blobPath, localPath string) error
}

// Cache is a local replica of completed index files and seals, backed by
// a BlobDownloader for cache misses. It assumes index files are immutable
// once complete, so a local hit never needs revalidation against the
// remote copy.
type Cache struct {
	replicaDir string
	downloader BlobDownloader

	mu         sync.Mutex
	indexPaths map[string]string
	sealPaths  map[string]string
}

// NewCache builds a Cache rooted at replicaDir, using downloader to
// resolve cache misses.
func NewCache(downloader BlobDownloader, replicaDir string) *Cache {
	return &Cache{
		replicaDir: replicaDir,
		downloader: downloader,
		indexPaths: make(map[string]string),
		sealPaths:  make(map[string]string),
	}
}

// NewAzureCache builds a Cache backed by the named container of an Azure
// Blob Storage account.
func NewAzureCache(client *azblob.Client, container, replicaDir string) *Cache {
	return NewCache(azureDownloader{client: client, container: container}, replicaDir)
}

// IndexPath returns the local filesystem path of the complete index file
// for traceID, downloading it into the replica directory on first use.
func (c *Cache) IndexPath(ctx context.Context, traceID string) (string, error) {
	return c.resolve(ctx, traceID, c.indexPaths, "index.bin", blobIndexPath)
}

// SealPath returns the local filesystem path of the COSE seal for
// traceID, downloading it into the replica directory on first use. It
// returns ErrBlobNotFound if the index was never sealed.
func (c *Cache) SealPath(ctx context.Context, traceID string) (string, error) {
	return c.resolve(ctx, traceID, c.sealPaths, "index.seal", blobSealPath)
}

func (c *Cache) resolve(
	ctx context.Context, traceID string, memo map[string]string, filename string,
	blobPathFor func(string) string,
) (string, error) {
	c.mu.Lock()
	if p, ok := memo[traceID]; ok {
		c.mu.Unlock()
		return p, nil
	}
	c.mu.Unlock()

	localPath := filepath.Join(c.replicaDir, traceID, filename)
	if _, err := os.Stat(localPath); err == nil {
		c.remember(memo, traceID, localPath)
		return localPath, nil
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return "", err
	}
	if err := c.downloader.DownloadFile(ctx, blobPathFor(traceID), localPath); err != nil {
		return "", err
	}
	c.remember(memo, traceID, localPath)
	return localPath, nil
}

func (c *Cache) remember(memo map[string]string, traceID, localPath string) {
	c.mu.Lock()
	memo[traceID] = localPath
	c.mu.Unlock()
}

// Evict drops traceID from the in-memory memo (but not the local
// filesystem replica), forcing the next IndexPath/SealPath call to
// re-check disk. Use this after deliberately replacing a local copy out
// of band.
func (c *Cache) Evict(traceID string) {
	c.mu.Lock()
	delete(c.indexPaths, traceID)
	delete(c.sealPaths, traceID)
	c.mu.Unlock()
}

func blobIndexPath(traceID string) string { return path.Join("traces", traceID, "index.bin") }
func blobSealPath(traceID string) string  { return path.Join("traces", traceID, "index.seal") }

type azureDownloader struct {
	client    *azblob.Client
	container string
}

func (d azureDownloader) DownloadFile(ctx context.Context, blobPath, localPath string) error {
	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	_, err = d.client.DownloadFile(ctx, d.container, blobPath, f, nil)
	closeErr := f.Close()
	if err != nil {
		os.Remove(localPath)
		return wrapBlobNotFound(err)
	}
	return closeErr
}
