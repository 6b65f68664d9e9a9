package media_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/media"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiskStore(t *testing.T) {
	store, err := media.NewDiskStore("", "/media")
	assert.Error(t, err)
	assert.Nil(t, store)

	root := filepath.Join(t.TempDir(), "nested", "media")
	store, err = media.NewDiskStore(root, "/media")
	require.NoError(t, err)
	require.NotNil(t, store)

	stat, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}

func TestDiskStore_PutListDelete(t *testing.T) {
	ctx := context.Background()
	store, err := media.NewDiskStore(t.TempDir(), "http://localhost:9000/media/")
	require.NoError(t, err)

	obj, err := store.Put(ctx, "recipes/1/album/b.jpg", bytes.NewBufferString("bbb"), 3, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "recipes/1/album/b.jpg", obj.Key)
	assert.Equal(t, "http://localhost:9000/media/recipes/1/album/b.jpg", obj.URL)
	assert.Equal(t, int64(3), obj.Size)

	_, err = store.Put(ctx, "recipes/1/album/a.jpg", bytes.NewBufferString("a"), 1, "image/jpeg")
	require.NoError(t, err)
	_, err = store.Put(ctx, "recipes/1/cover.jpg", bytes.NewBufferString("cover"), 5, "image/jpeg")
	require.NoError(t, err)
	_, err = store.Put(ctx, "recipes/1/album2/x.jpg", bytes.NewBufferString("x"), 1, "image/jpeg")
	require.NoError(t, err)

	objects, err := store.List(ctx, "recipes/1/album", 100)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "recipes/1/album/a.jpg", objects[0].Key)
	assert.Equal(t, "recipes/1/album/b.jpg", objects[1].Key)

	limited, err := store.List(ctx, "recipes/1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	missing, err := store.List(ctx, "recipes/404/album", 100)
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.NotNil(t, missing)

	require.NoError(t, store.Delete(ctx, "recipes/1/album/a.jpg"))
	assert.ErrorIs(t, store.Delete(ctx, "recipes/1/album/a.jpg"), media.ErrObjectNotFound)

	objects, err = store.List(ctx, "recipes/1/album/", 100)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "recipes/1/album/b.jpg", objects[0].Key)
}

func TestDiskStore_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := media.NewDiskStore(filepath.Join(root, "media"), "/media")
	require.NoError(t, err)

	_, err = store.Put(ctx, "../outside.txt", bytes.NewBufferString("x"), 1, "")
	assert.ErrorIs(t, err, media.ErrInvalidKey)
	_, err = os.Stat(filepath.Join(root, "outside.txt"))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, store.Delete(ctx, "a/../../b"), media.ErrInvalidKey)
	_, err = store.List(ctx, "../", 10)
	assert.ErrorIs(t, err, media.ErrInvalidKey)
}

func TestDiskStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	store, err := media.NewDiskStore(t.TempDir(), "/media")
	require.NoError(t, err)

	_, err = store.Put(ctx, "progress/1/front.jpg", bytes.NewBufferString("old"), 3, "")
	require.NoError(t, err)
	_, err = store.Put(ctx, "progress/1/front.jpg", bytes.NewBufferString("newer"), 5, "")
	require.NoError(t, err)

	f, err := store.Open("progress/1/front.jpg")
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "newer", string(content))
}

func TestFileHandler_HandleGet(t *testing.T) {
	store, err := media.NewDiskStore(t.TempDir(), "/media")
	require.NoError(t, err)
	_, err = store.Put(context.Background(), "exercises/2/clip.mp4", bytes.NewBufferString("video"), 5, "video/mp4")
	require.NoError(t, err)

	r := mux.NewRouter()
	r.HandleFunc("/media/{key:.+}", media.NewFileHandler(store).HandleGet)

	testCases := []struct {
		name         string
		path         string
		expectedCode int
		expectedBody string
	}{
		{name: "existing", path: "/media/exercises/2/clip.mp4", expectedCode: http.StatusOK, expectedBody: "video"},
		{name: "missing", path: "/media/exercises/2/none.mp4", expectedCode: http.StatusNotFound},
		{name: "dot segment", path: "/media/exercises/./clip.mp4", expectedCode: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			rec := httptest.NewRecorder()

			vars := map[string]string{"key": tc.path[len("/media/"):]}
			media.NewFileHandler(store).HandleGet(rec, mux.SetURLVars(req, vars))

			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedBody != "" {
				assert.Equal(t, tc.expectedBody, rec.Body.String())
				assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
			}
		})
	}

	_, err = store.Put(context.Background(), "recipes/2/cover.png", bytes.NewBufferString("png"), 3, "image/png")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/recipes/2/cover.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestFileHandler_HandleGet_NoInlineScript(t *testing.T) {
	ctx := context.Background()
	store, err := media.NewDiskStore(t.TempDir(), "/media")
	require.NoError(t, err)

	r := mux.NewRouter()
	r.HandleFunc("/media/{key:.+}", media.NewFileHandler(store).HandleGet)

	payload := "<script>alert(document.cookie)</script>"

	// an upload named evil.html is stored under a .png key
	key := media.NewKey("progress/1", "evil.html")
	assert.Regexp(t, `\.png$`, key)
	_, err = store.Put(ctx, key, bytes.NewBufferString(payload), int64(len(payload)), media.ContentType("text/html", "evil.html"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/"+key, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))

	// objects with other extensions are only ever downloaded
	_, err = store.Put(ctx, "progress/1/evil.html", bytes.NewBufferString(payload), int64(len(payload)), "text/html")
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/progress/1/evil.html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, `attachment; filename=evil.html`, rec.Header().Get("Content-Disposition"))
}
