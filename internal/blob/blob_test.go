package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/julianstephens/glowup/internal/clock"
	"github.com/julianstephens/glowup/internal/models"
	"github.com/julianstephens/glowup/internal/storage"
	"github.com/julianstephens/glowup/internal/store"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: make(map[string][]byte)} }

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestStores(t *testing.T) {
	fsStore, err := NewFS(filepath.Join(t.TempDir(), "blobs"))
	if err != nil {
		t.Fatal(err)
	}
	stores := map[string]Store{
		"memory": NewMemory(),
		"fs":     fsStore,
		"s3":     NewS3WithClient(newFakeS3(), "bucket", "/previews/"),
	}

	ctx := context.Background()
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get(ctx, "f1"); ok || err != nil {
				t.Fatalf("Get(missing) = %v, %v", ok, err)
			}
			if err := s.Save(ctx, "f1", []byte("png bytes")); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if err := s.Save(ctx, "f1", []byte("replaced")); err != nil {
				t.Fatalf("Save() overwrite error = %v", err)
			}
			data, ok, err := s.Get(ctx, "f1")
			if err != nil || !ok || string(data) != "replaced" {
				t.Errorf("Get() = %q, %v, %v", data, ok, err)
			}
			if err := s.Delete(ctx, "f1"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if err := s.Delete(ctx, "f1"); err != nil {
				t.Errorf("Delete(missing) error = %v", err)
			}
			if _, ok, _ := s.Get(ctx, "f1"); ok {
				t.Error("Get() after Delete found the blob")
			}
			if err := s.Save(ctx, "../escape", nil); !errors.Is(err, ErrInvalidID) {
				t.Errorf("Save(../escape) error = %v, want ErrInvalidID", err)
			}
		})
	}
}

func TestFS_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), "a", []byte("x")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "a" {
		t.Errorf("directory holds %v, want only the blob", entries)
	}
}

func TestS3_Prefix(t *testing.T) {
	fake := newFakeS3()
	s := NewS3WithClient(fake, "bucket", "previews")
	if err := s.Save(context.Background(), "f1", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if _, ok := fake.objects["bucket/previews/f1"]; !ok {
		t.Errorf("objects = %v, want key previews/f1", fake.objects)
	}
}

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      string
		wantType  string
		wantError bool
	}{
		{name: "base64", in: "data:image/png;base64,aGVsbG8=", want: "hello", wantType: "image/png"},
		{name: "percent encoded", in: "data:text/plain,a%20b", want: "a b", wantType: "text/plain"},
		{name: "default type", in: "data:,x", want: "x", wantType: "text/plain;charset=US-ASCII"},
		{name: "bad base64", in: "data:image/png;base64,!!!", wantError: true},
		{name: "no comma", in: "data:image/png", wantError: true},
		{name: "not a data url", in: "https://example.com/a.png", wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, mediaType, err := DecodeDataURL(tt.in)
			if tt.wantError {
				if err == nil {
					t.Errorf("DecodeDataURL(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeDataURL(%q) error = %v", tt.in, err)
			}
			if string(got) != tt.want || mediaType != tt.wantType {
				t.Errorf("DecodeDataURL(%q) = %q, %q, want %q, %q", tt.in, got, mediaType, tt.want, tt.wantType)
			}
		})
	}
}

func TestMigratePreviews(t *testing.T) {
	ctx := context.Background()
	st := store.New(storage.NewMemoryStore(), store.WithClock(clock.Fixed("2024-03-13")))
	if err := st.Load(); err != nil {
		t.Fatal(err)
	}
	inline, err := st.AddUploadedFile(models.UploadedFile{Filename: "a.png", PreviewURL: "data:image/png;base64,aGVsbG8="})
	if err != nil {
		t.Fatal(err)
	}
	linked, _ := st.AddUploadedFile(models.UploadedFile{Filename: "b.png", PreviewURL: "https://example.com/b.png"})
	broken, _ := st.AddUploadedFile(models.UploadedFile{Filename: "c.png", PreviewURL: "data:image/png;base64,%%%"})

	blobs := NewMemory()
	moved, err := MigratePreviews(ctx, st, blobs)
	if err != nil || moved != 1 {
		t.Fatalf("MigratePreviews() = %d, %v, want 1", moved, err)
	}

	got, _ := st.GetUploadedFile(inline.ID)
	if got.PreviewURL != Ref(inline.ID) {
		t.Errorf("previewUrl = %q, want %q", got.PreviewURL, Ref(inline.ID))
	}
	data, ok, err := Preview(ctx, blobs, got.PreviewURL)
	if err != nil || !ok || string(data) != "hello" {
		t.Errorf("Preview() = %q, %v, %v", data, ok, err)
	}
	if got, _ := st.GetUploadedFile(linked.ID); got.PreviewURL != "https://example.com/b.png" {
		t.Errorf("linked previewUrl changed to %q", got.PreviewURL)
	}
	if got, _ := st.GetUploadedFile(broken.ID); got.PreviewURL != broken.PreviewURL {
		t.Errorf("broken previewUrl changed to %q", got.PreviewURL)
	}

	// a second pass finds nothing left to move
	if moved, err := MigratePreviews(ctx, st, blobs); moved != 0 || err != nil {
		t.Errorf("second MigratePreviews() = %d, %v", moved, err)
	}
	if blobs.Len() != 1 {
		t.Errorf("blob count = %d, want 1", blobs.Len())
	}
}
