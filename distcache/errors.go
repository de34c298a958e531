package distcache

import (
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// ErrBlobNotFound is the sentinel this package normalizes every "no such
// blob" response to, regardless of which Azure SDK error shape produced it.
var ErrBlobNotFound = errors.New("distcache: blob not found")

// wrapBlobNotFound translates an Azure SDK not-found response into
// ErrBlobNotFound, leaving every other error untouched.
//
// Grounded on massifs/blobnotfounderr.go's WrapBlobNotFound, updated for
// the azblob/bloberror helper the current SDK major version exposes
// instead of the older StorageError/InternalError pair the teacher's
// version used.
func wrapBlobNotFound(err error) error {
	if err == nil {
		return nil
	}
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("%s: %w", err.Error(), ErrBlobNotFound)
	}
	return err
}

// IsBlobNotFound reports whether err is, or wraps, ErrBlobNotFound.
func IsBlobNotFound(err error) bool {
	return errors.Is(err, ErrBlobNotFound)
}
