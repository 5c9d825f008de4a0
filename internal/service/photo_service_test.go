package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tastebook/api/internal/media/sniffer"
	"tastebook/api/internal/models"
)

var pngHead = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type fakePhotoStore struct {
	putErr  error
	objects map[string][]byte
	removed []string
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{objects: map[string][]byte{}}
}

func (s *fakePhotoStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	s.objects[name] = data
	return name, nil
}

func (s *fakePhotoStore) Remove(_ context.Context, key string) error {
	delete(s.objects, key)
	s.removed = append(s.removed, key)
	return nil
}

func (s *fakePhotoStore) PublicURL(key string) string {
	return "http://cdn.test/" + key
}

type memUpload struct{ *bytes.Reader }

func (memUpload) Close() error { return nil }

func uploadFile(data []byte, contentType string) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: "photo",
		Size:     int64(len(data)),
		Header:   textproto.MIMEHeader{},
	}
	if contentType != "" {
		header.Header.Set("Content-Type", contentType)
	}
	return memUpload{bytes.NewReader(data)}, header
}

func TestAttachStoresPhoto(t *testing.T) {
	store := newFakePhotoStore()
	svc := NewPhotoService(store, zerolog.Nop())

	file, header := uploadFile(pngHead, "image/png")
	url, key, err := svc.Attach(context.Background(), models.Recipe{ID: "r1"}, file, header)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "r1_"), "key %q carries the recipe id", key)
	assert.True(t, strings.HasSuffix(key, ".png"), "key %q carries the sniffed extension", key)
	assert.Equal(t, "http://cdn.test/"+key, url)
	assert.Contains(t, store.objects, key)
}

func TestAttachLeavesOldPhotoInPlace(t *testing.T) {
	store := newFakePhotoStore()
	store.objects["old-key"] = []byte("old")
	svc := NewPhotoService(store, zerolog.Nop())

	oldKey := "old-key"
	file, header := uploadFile(pngHead, "image/png")
	_, _, err := svc.Attach(context.Background(), models.Recipe{ID: "r1", PhotoKey: &oldKey}, file, header)
	require.NoError(t, err)

	// disposal of the replaced object is the caller's move, after the
	// recipe row is updated
	assert.Empty(t, store.removed)
	assert.Contains(t, store.objects, "old-key")
}

func TestAttachRejectsTypeMismatch(t *testing.T) {
	store := newFakePhotoStore()
	svc := NewPhotoService(store, zerolog.Nop())

	file, header := uploadFile(pngHead, "image/jpeg")
	_, _, err := svc.Attach(context.Background(), models.Recipe{ID: "r1"}, file, header)
	assert.ErrorIs(t, err, ErrPhotoTypeMismatch)
	assert.Empty(t, store.objects)
}

func TestAttachRejectsUnknownType(t *testing.T) {
	store := newFakePhotoStore()
	svc := NewPhotoService(store, zerolog.Nop())

	file, header := uploadFile([]byte("<svg xmlns=...>"), "")
	_, _, err := svc.Attach(context.Background(), models.Recipe{ID: "r1"}, file, header)
	assert.ErrorIs(t, err, sniffer.ErrUnknownType)
}

func TestAttachRejectsOversize(t *testing.T) {
	store := newFakePhotoStore()
	svc := NewPhotoService(store, zerolog.Nop())

	file, header := uploadFile(pngHead, "image/png")
	header.Size = 11 << 20
	_, _, err := svc.Attach(context.Background(), models.Recipe{ID: "r1"}, file, header)
	assert.ErrorIs(t, err, ErrPhotoTooLarge)
}

func TestAttachStoreFailure(t *testing.T) {
	store := newFakePhotoStore()
	store.putErr = assert.AnError
	svc := NewPhotoService(store, zerolog.Nop())

	file, header := uploadFile(pngHead, "image/png")
	_, _, err := svc.Attach(context.Background(), models.Recipe{ID: "r1"}, file, header)
	require.ErrorContains(t, err, "store photo")
	assert.NotErrorIs(t, err, ErrPhotoTooLarge)
	assert.NotErrorIs(t, err, ErrPhotoTypeMismatch)
	assert.NotErrorIs(t, err, sniffer.ErrUnknownType)
}
