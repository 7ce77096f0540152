package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const (
	// URLModeACL makes every object public-read and returns its
	// storage.googleapis.com URL.
	URLModeACL = "acl"
	// URLModeToken attaches a Firebase download token instead, for buckets
	// with uniform bucket-level access where object ACLs are rejected.
	URLModeToken = "token"
)

// ImageStore is the object storage adapter. Save writes data under key and
// returns a publicly reachable URL.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, data io.Reader) (string, error)
}

type gcsImageStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
	mode       string
}

func NewGCSImageStore(bucket *gcs.BucketHandle, bucketName, mode string) ImageStore {
	if mode != URLModeToken {
		mode = URLModeACL
	}
	return &gcsImageStore{bucket: bucket, bucketName: bucketName, mode: mode}
}

func (s *gcsImageStore) Save(ctx context.Context, key, contentType string, data io.Reader) (string, error) {
	obj := s.bucket.Object(key)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	token := ""
	if s.mode == URLModeToken {
		token = uuid.NewString()
		w.Metadata = map[string]string{
			"firebaseStorageDownloadTokens": token,
		}
	}
	if _, err := io.Copy(w, data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", key, err)
	}

	if s.mode == URLModeToken {
		return TokenURL(s.bucketName, key, token), nil
	}
	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", fmt.Errorf("make public %s: %w", key, err)
	}
	return PublicURL(s.bucketName, key), nil
}

// PublicURL is the address of a public-read object.
func PublicURL(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, strings.Join(segments, "/"))
}

// TokenURL is the Firebase download URL of an object carrying token.
func TokenURL(bucket, key, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(key), token)
}

// MemoryImageStore keeps objects in memory and serves PublicURL-style URLs.
type MemoryImageStore struct {
	Bucket string
	// Err, when set, fails every Save.
	Err    error

	mu      sync.Mutex
	objects map[string]MemoryObject
}

type MemoryObject struct {
	ContentType string
	Data        []byte
}

func NewMemoryImageStore(bucket string) *MemoryImageStore {
	return &MemoryImageStore{Bucket: bucket, objects: map[string]MemoryObject{}}
}

func (s *MemoryImageStore) Save(ctx context.Context, key, contentType string, data io.Reader) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.objects[key] = MemoryObject{ContentType: contentType, Data: b}
	s.mu.Unlock()
	return PublicURL(s.Bucket, key), nil
}

// Objects returns a snapshot of the stored objects keyed by object name.
func (s *MemoryImageStore) Objects() map[string]MemoryObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]MemoryObject, len(s.objects))
	for k, v := range s.objects {
		out[k] = v
	}
	return out
}
