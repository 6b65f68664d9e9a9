package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"
	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// DiskStore keeps objects as plain files under rootPath. Used in development,
// files are served back by FileHandler.
type DiskStore struct {
	rootPath  string
	publicURL string
	mutex     sync.RWMutex
}

func NewDiskStore(rootPath, publicURL string) (*DiskStore, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}

	exists, err := pkg.PathExists(rootPath, true)
	if err != nil {
		return nil, fmt.Errorf("check root path: %w", err)
	}
	if !exists {
		if err := os.MkdirAll(rootPath, 0755); err != nil {
			return nil, fmt.Errorf("create root path: %w", err)
		}
		log.Debugf("disk store: root folder created: %s", rootPath)
	}

	return &DiskStore{
		rootPath:  rootPath,
		publicURL: publicURL,
	}, nil
}

func (ds *DiskStore) filePath(key string) string {
	return filepath.Join(ds.rootPath, filepath.FromSlash(key))
}

func (ds *DiskStore) Put(
	ctx context.Context,
	key string,
	r io.Reader,
	size int64,
	_ string,
) (_ Object, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("object.key", key))
	span.SetAttributes(attribute.Int64("object.size", size))

	if err := ValidateKey(key); err != nil {
		return Object{}, err
	}

	dst := ds.filePath(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return Object{}, fmt.Errorf("create parent folder: %w", err)
	}

	// write to a temp file first, readers never see half written files
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return Object{}, err
	}
	written, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if removeErr := os.Remove(tmp.Name()); removeErr != nil {
			log.Errorf("disk store: remove temp file %s: %s", tmp.Name(), removeErr)
		}
		return Object{}, fmt.Errorf("write %s: %w", key, err)
	}

	ds.mutex.Lock()
	defer ds.mutex.Unlock()

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return Object{}, fmt.Errorf("rename %s: %w", key, err)
	}

	stat, err := os.Stat(dst)
	if err != nil {
		return Object{}, err
	}

	log.Debugf("disk store: object %s saved [%d bytes]", key, written)

	return Object{
		Key:          key,
		URL:          ds.PublicURL(key),
		Size:         written,
		LastModified: stat.ModTime(),
	}, nil
}

func (ds *DiskStore) List(ctx context.Context, prefix string, limit int) (_ []Object, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	prefix = strings.TrimRight(prefix, "/")
	if err := ValidateKey(prefix); err != nil {
		return nil, err
	}

	ds.mutex.RLock()
	defer ds.mutex.RUnlock()

	objects := []Object{}
	root := ds.filePath(prefix)
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) {
				return nil
			}
			return walkErr
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(ds.rootPath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		objects = append(objects, Object{
			Key:          key,
			URL:          ds.PublicURL(key),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		if limit > 0 && len(objects) >= limit {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Key < objects[j].Key
	})

	return objects, nil
}

func (ds *DiskStore) Delete(ctx context.Context, key string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ValidateKey(key); err != nil {
		return err
	}

	ds.mutex.Lock()
	defer ds.mutex.Unlock()

	if err := os.Remove(ds.filePath(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrObjectNotFound
		}
		return err
	}

	log.Debugf("disk store: object %s deleted", key)
	return nil
}

// Open returns the stored file. Callers must close it.
func (ds *DiskStore) Open(key string) (*os.File, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	ds.mutex.RLock()
	defer ds.mutex.RUnlock()

	f, err := os.Open(ds.filePath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return f, nil
}

func (ds *DiskStore) PublicURL(key string) string {
	return publicURL(ds.publicURL, key)
}
