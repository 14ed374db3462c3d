package blob_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inkpress/go-blog-server/blob"
	"github.com/stretchr/testify/require"
)

func TestDiskStore_Put(t *testing.T) {
	store, err := blob.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	locator, err := store.Put("cover.PNG", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(locator, "uploads/"))
	require.True(t, strings.HasSuffix(locator, ".png"), "extension is kept, lowercased: %s", locator)

	data, err := os.ReadFile(filepath.Join(store.Folder(), strings.TrimPrefix(locator, "uploads/")))
	require.NoError(t, err)
	require.Equal(t, "image-bytes", string(data))
}

func TestDiskStore_PutUniqueNames(t *testing.T) {
	store, err := blob.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Put("cover.jpg", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Put("cover.jpg", strings.NewReader("b"))
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}
