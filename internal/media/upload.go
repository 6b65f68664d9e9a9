package media

import (
	"context"
	"fmt"
	"mime/multipart"

	log "github.com/sirupsen/logrus"
)

// MaxUploadSize bounds multipart request bodies for every upload route.
const MaxUploadSize = 200 << 20

// SaveUpload stores one multipart file under prefix with a fresh key.
func SaveUpload(ctx context.Context, store Store, prefix string, fileHeader *multipart.FileHeader) (Object, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return Object{}, fmt.Errorf("open uploaded file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("failed to close uploaded file [%s]: %s", fileHeader.Filename, err)
		}
	}()

	key := NewKey(prefix, fileHeader.Filename)
	contentType := ContentType(fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	log.Debugf("saving upload [%s] as %s, size: %d, content-type: %s", fileHeader.Filename, key, fileHeader.Size, contentType)

	return store.Put(ctx, key, file, fileHeader.Size, contentType)
}
