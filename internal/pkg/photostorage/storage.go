package photostorage

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"
	"time"
)

// Storage is the blob upload collaborator: it accepts a local image handle and
// an identity hint and returns a durable URL.
type Storage interface {
	// UploadPhoto stores the image and returns its durable URL. The naming
	// hint is the student's email; implementations derive a stable public
	// name from its local part.
	UploadPhoto(ctx context.Context, fileHeader *multipart.FileHeader, namingHint string) (string, error)
}

// publicID derives a collision-resistant public name from an email naming
// hint: the local part with '@' and '.' replaced by '_', plus a millisecond
// timestamp suffix.
func publicID(namingHint string) string {
	local := namingHint
	if i := strings.Index(namingHint, "@"); i >= 0 {
		local = namingHint[:i]
	}
	safe := strings.NewReplacer("@", "_", ".", "_").Replace(local)
	return safe + "_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}
