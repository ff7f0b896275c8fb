package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/hupe1980/gridbuf/blobstore"
	gbadger "github.com/hupe1980/gridbuf/blobstore/badger"
	"github.com/hupe1980/gridbuf/blobstore/gcs"
	gminio "github.com/hupe1980/gridbuf/blobstore/minio"
	gs3 "github.com/hupe1980/gridbuf/blobstore/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"google.golang.org/api/option"
)

// storeLocation is a parsed --store value.
type storeLocation struct {
	Scheme   string // "file", "badger", "s3", "gs" or "minio"
	Endpoint string // minio only
	Bucket   string
	Prefix   string
	Path     string // file and badger only
	Secure   bool
}

func parseStore(raw string) (storeLocation, error) {
	if !strings.Contains(raw, "://") {
		if raw == "" {
			raw = "."
		}
		return storeLocation{Scheme: "file", Path: raw}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return storeLocation{}, err
	}
	switch u.Scheme {
	case "file":
		return storeLocation{Scheme: "file", Path: u.Path}, nil
	case "badger":
		p := u.Host + u.Path
		if p == "" {
			return storeLocation{}, fmt.Errorf("store %q: missing path", raw)
		}
		return storeLocation{Scheme: "badger", Path: p}, nil
	case "s3", "gs":
		if u.Host == "" {
			return storeLocation{}, fmt.Errorf("store %q: missing bucket", raw)
		}
		return storeLocation{Scheme: u.Scheme, Bucket: u.Host, Prefix: strings.Trim(u.Path, "/")}, nil
	case "minio":
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" {
			return storeLocation{}, fmt.Errorf("store %q: want minio://host/bucket[/prefix]", raw)
		}
		secure := true
		if v := u.Query().Get("secure"); v != "" {
			if secure, err = strconv.ParseBool(v); err != nil {
				return storeLocation{}, fmt.Errorf("store %q: secure: %w", raw, err)
			}
		}
		return storeLocation{
			Scheme:   "minio",
			Endpoint: u.Host,
			Bucket:   bucket,
			Prefix:   strings.TrimSuffix(prefix, "/"),
			Secure:   secure,
		}, nil
	default:
		return storeLocation{}, fmt.Errorf("store %q: unsupported scheme %q", raw, u.Scheme)
	}
}

// open connects to the store. The returned closer is nil when there is
// nothing to release. S3 credentials come from the default AWS chain, GCS
// credentials from GRIDBUF_GCS_CREDENTIALS or application default
// credentials, MinIO credentials from MINIO_ACCESS_KEY and MINIO_SECRET_KEY.
func (l storeLocation) open(ctx context.Context) (blobstore.BlobStore, io.Closer, error) {
	switch l.Scheme {
	case "s3":
		s, err := gs3.New(ctx, l.Bucket, gs3.WithPrefix(l.Prefix))
		return s, nil, err
	case "gs":
		var opts []option.ClientOption
		if key := os.Getenv("GRIDBUF_GCS_CREDENTIALS"); key != "" {
			opts = append(opts, option.WithCredentialsFile(key))
		}
		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("create GCS client: %w", err)
		}
		return gcs.NewStore(client, l.Bucket, l.Prefix), client, nil
	case "badger":
		s, err := gbadger.Open(gbadger.Config{Path: l.Path})
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "minio":
		client, err := minio.New(l.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: l.Secure,
		})
		if err != nil {
			return nil, nil, err
		}
		return gminio.NewStore(client, l.Bucket, l.Prefix), nil, nil
	default:
		return blobstore.NewLocalStore(l.Path), nil, nil
	}
}

// openStore opens --store once per command.
func (a *app) openStore(ctx context.Context) (blobstore.BlobStore, error) {
	if a.opened != nil {
		return a.opened, nil
	}
	loc, err := parseStore(a.store)
	if err != nil {
		return nil, err
	}
	s, c, err := loc.open(ctx)
	if err != nil {
		return nil, err
	}
	a.opened = s
	if c != nil {
		a.closers = append(a.closers, c)
	}
	return s, nil
}

// closeStores releases everything openStore acquired.
func (a *app) closeStores() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	a.opened = nil
	return errors.Join(errs...)
}

// resolveBlob maps a positional argument to a store and blob name. Without
// --store the argument is a local file path.
func (a *app) resolveBlob(ctx context.Context, arg string) (blobstore.BlobStore, string, error) {
	if a.store == "" {
		return blobstore.NewLocalStore(filepath.Dir(arg)), filepath.Base(arg), nil
	}
	s, err := a.openStore(ctx)
	if err != nil {
		return nil, "", err
	}
	return s, arg, nil
}
