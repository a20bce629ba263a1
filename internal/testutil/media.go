package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dom/videotube/internal/media"
	"github.com/google/uuid"
)

// FakeMediaStore stands in for the media gateway. Like the real gateway it
// removes the local file on every upload attempt.
type FakeMediaStore struct {
	mu       sync.Mutex
	fail     bool
	duration float64
	uploaded []string
	deleted  []string
}

func NewFakeMediaStore() *FakeMediaStore {
	return &FakeMediaStore{duration: 42.5}
}

// FailUploads makes every following upload fail.
func (f *FakeMediaStore) FailUploads(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

func (f *FakeMediaStore) Upload(_ context.Context, localPath string) (*media.Asset, error) {
	defer os.Remove(localPath)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("media host unavailable")
	}

	name := uuid.New().String() + filepath.Ext(localPath)
	asset := &media.Asset{
		URL:        "https://media.test/videotube/" + name,
		ObjectName: name,
		Duration:   f.duration,
	}
	f.uploaded = append(f.uploaded, asset.URL)
	return asset, nil
}

func (f *FakeMediaStore) Delete(_ context.Context, ref string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ref)
}

func (f *FakeMediaStore) Uploaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploaded...)
}

func (f *FakeMediaStore) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// TempFile writes a small local file with the given extension, standing in
// for an uploaded part.
func TempFile(t *testing.T, ext string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), uuid.New().String()+ext)
	if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return p
}
