package chemicals

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"chem_inventory/internal/config"
	"chem_inventory/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInventoryStore struct {
	createErr error
	updateErr error

	createdParams *database.CreateInventoryItemParams
	updatedParams *database.UpdateInventoryItemImageURLsParams
}

func (f *fakeInventoryStore) CreateInventoryItem(ctx context.Context, arg database.CreateInventoryItemParams) (int32, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.createdParams = &arg
	return 314, nil
}

func (f *fakeInventoryStore) UpdateInventoryItemImageURLs(ctx context.Context, arg database.UpdateInventoryItemImageURLsParams) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedParams = &arg
	return nil
}

type fakeUploader struct {
	mu     sync.Mutex
	failOn string // substring of keys that should fail
	keys   []string
	types  []string
}

func (f *fakeUploader) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	if f.failOn != "" && strings.Contains(key, f.failOn) {
		return errors.New("upload refused")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.types = append(f.types, contentType)
	return nil
}

func (f *fakeUploader) PublicURL(key string) string {
	return "https://blob.example/" + key
}

func pngDataURL(t *testing.T) string {
	t.Helper()
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
}

func testAttrs() InventoryAttribute {
	cabinet := int32(3)
	return InventoryAttribute{
		AmountInitial: 500,
		AmountCurrent: 500,
		Unit:          "ml",
		CabinetID:     &cabinet,
		State:         "liquid",
		Manufacturer:  "Merck",
		PurchaseDate:  "2026-08-15",
	}
}

func TestWriteCreatesInventoryItem(t *testing.T) {
	store := &fakeInventoryStore{}
	uploader := &fakeUploader{}
	w := NewWriter(store, uploader, nil, nil)

	result, err := w.Write(context.Background(), 7, "71-43-2", testAttrs(), true)
	require.NoError(t, err)

	assert.Equal(t, "71-43-2", result.CasNumber)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, int32(314), result.InventoryKey)
	assert.True(t, result.IsNewSubstance)

	require.NotNil(t, store.createdParams)
	assert.Equal(t, int32(7), store.createdParams.SubstanceID)
	assert.True(t, strings.HasPrefix(store.createdParams.BottleID, "71-43-2-"))
	assert.Equal(t, "ml", store.createdParams.Unit)
	assert.Equal(t, int32(3), store.createdParams.CabinetID.Int32)
	assert.False(t, store.createdParams.Door.Valid)
	assert.True(t, store.createdParams.PurchaseDate.Valid)
	assert.Empty(t, uploader.keys)
	assert.Nil(t, store.updatedParams)
}

func TestWriteBottleIDsAreUnique(t *testing.T) {
	store := &fakeInventoryStore{}
	w := NewWriter(store, &fakeUploader{}, nil, nil)

	_, err := w.Write(context.Background(), 7, "71-43-2", testAttrs(), false)
	require.NoError(t, err)
	first := store.createdParams.BottleID

	_, err = w.Write(context.Background(), 7, "71-43-2", testAttrs(), false)
	require.NoError(t, err)
	assert.NotEqual(t, first, store.createdParams.BottleID)
}

func TestWriteDefaultsCurrentAmountToInitial(t *testing.T) {
	store := &fakeInventoryStore{}
	w := NewWriter(store, &fakeUploader{}, nil, nil)

	attrs := testAttrs()
	attrs.AmountCurrent = 0
	_, err := w.Write(context.Background(), 7, "71-43-2", attrs, false)
	require.NoError(t, err)
	assert.Equal(t, float64(500), store.createdParams.AmountCurrent)
}

func TestWriteInsertFailureIsFatal(t *testing.T) {
	store := &fakeInventoryStore{createErr: errors.New("connection lost")}
	uploader := &fakeUploader{}
	w := NewWriter(store, uploader, nil, nil)

	attrs := testAttrs()
	attrs.ImageSmall = pngDataURL(t)
	_, err := w.Write(context.Background(), 7, "71-43-2", attrs, false)
	require.Error(t, err)
	assert.Equal(t, config.ErrKindPersistence, ErrorKind(err))
	// No upload happens when the row never made it in
	assert.Empty(t, uploader.keys)
}

func TestWriteUploadsImagesAndBackfillsURLs(t *testing.T) {
	store := &fakeInventoryStore{}
	uploader := &fakeUploader{}
	w := NewWriter(store, uploader, nil, nil)

	attrs := testAttrs()
	attrs.ImageSmall = pngDataURL(t)
	attrs.ImageLarge = pngDataURL(t)

	result, err := w.Write(context.Background(), 7, "71-43-2", attrs, false)
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)

	require.Len(t, uploader.keys, 2)
	assert.ElementsMatch(t, []string{
		"bottles/314/71-43-2_small.png",
		"bottles/314/71-43-2_large.png",
	}, uploader.keys)
	assert.Equal(t, []string{"image/png", "image/png"}, uploader.types)

	require.NotNil(t, store.updatedParams)
	assert.Equal(t, int32(314), store.updatedParams.ID)
	assert.Equal(t, "https://blob.example/bottles/314/71-43-2_small.png", store.updatedParams.ImageURLSmall.String)
	assert.Equal(t, "https://blob.example/bottles/314/71-43-2_large.png", store.updatedParams.ImageURLLarge.String)
}

func TestWriteToleratesPartialUploadFailure(t *testing.T) {
	store := &fakeInventoryStore{}
	uploader := &fakeUploader{failOn: "_large"}
	w := NewWriter(store, uploader, nil, nil)

	attrs := testAttrs()
	attrs.ImageSmall = pngDataURL(t)
	attrs.ImageLarge = pngDataURL(t)

	result, err := w.Write(context.Background(), 7, "71-43-2", attrs, false)
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)

	require.NotNil(t, store.updatedParams)
	assert.True(t, store.updatedParams.ImageURLSmall.Valid)
	assert.False(t, store.updatedParams.ImageURLLarge.Valid)
}

func TestWriteToleratesMalformedImage(t *testing.T) {
	store := &fakeInventoryStore{}
	uploader := &fakeUploader{}
	w := NewWriter(store, uploader, nil, nil)

	attrs := testAttrs()
	attrs.ImageSmall = "data:image/png;base64,%%%not-base64%%%"

	result, err := w.Write(context.Background(), 7, "71-43-2", attrs, false)
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Empty(t, uploader.keys)
	assert.Nil(t, store.updatedParams)
}

func TestWriteToleratesURLBackfillFailure(t *testing.T) {
	store := &fakeInventoryStore{updateErr: errors.New("deadlock detected")}
	uploader := &fakeUploader{}
	w := NewWriter(store, uploader, nil, nil)

	attrs := testAttrs()
	attrs.ImageSmall = pngDataURL(t)

	result, err := w.Write(context.Background(), 7, "71-43-2", attrs, false)
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Len(t, uploader.keys, 1)
}
