package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const cacheControl = "public, max-age=3600"

type MinioParams struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicURL is the base the object keys are appended to, e.g. https://cdn.tigo.app/tigo-media
	PublicURL string
}

type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStore(ctx context.Context, params MinioParams) (*MinioStore, error) {
	client, err := minio.New(params.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(params.AccessKey, params.SecretKey, ""),
		Secure:    params.UseSSL,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, params.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", params.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, params.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket %s: %w", params.Bucket, err)
		}
		log.Infof("media: bucket %s created", params.Bucket)
	}

	publicBase := params.PublicURL
	if publicBase == "" {
		publicBase = client.EndpointURL().String() + "/" + params.Bucket
	}

	return &MinioStore{
		client:    client,
		bucket:    params.Bucket,
		publicURL: publicBase,
	}, nil
}

func (s *MinioStore) Put(
	ctx context.Context,
	key string,
	r io.Reader,
	size int64,
	contentType string,
) (_ Object, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "minioStore.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("object.key", key))
	span.SetAttributes(attribute.Int64("object.size", size))

	if err := ValidateKey(key); err != nil {
		return Object{}, err
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: cacheControl,
	})
	if err != nil {
		return Object{}, fmt.Errorf("put object %s: %w", key, err)
	}

	log.Debugf("media: object %s stored [%d bytes]", key, info.Size)

	return Object{
		Key:          key,
		URL:          s.PublicURL(key),
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

func (s *MinioStore) List(ctx context.Context, prefix string, limit int) (_ []Object, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "minioStore.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := []Object{}
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    dirPrefix(prefix),
		Recursive: true,
		MaxKeys:   limit,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list objects %s: %w", prefix, info.Err)
		}
		objects = append(objects, Object{
			Key:          info.Key,
			URL:          s.PublicURL(info.Key),
			Size:         info.Size,
			LastModified: info.LastModified,
		})
		if limit > 0 && len(objects) >= limit {
			break
		}
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Key < objects[j].Key
	})

	return objects, nil
}

func (s *MinioStore) Delete(ctx context.Context, key string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "minioStore.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ValidateKey(key); err != nil {
		return err
	}

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return ErrObjectNotFound
		}
		return fmt.Errorf("stat object %s: %w", key, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}

	log.Debugf("media: object %s removed", key)
	return nil
}

func (s *MinioStore) PublicURL(key string) string {
	return publicURL(s.publicURL, key)
}

// dirPrefix makes "recipes/1/album" list only that folder, not "recipes/1/album2".
func dirPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return strings.TrimRight(prefix, "/") + "/"
}
