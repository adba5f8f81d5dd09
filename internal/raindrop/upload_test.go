package raindrop

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func noRequestHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("validation must reject before any request")
	})
}

func TestUploadFileRejectsMissingFile(t *testing.T) {
	client := newTestClient(t, noRequestHandler(t))

	_, err := client.UploadFile(context.Background(), "/does/not/exist.pdf", nil)
	var notFound *FileNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "/does/not/exist.pdf", notFound.Path)
}

func TestUploadFileRejectsUnsupportedType(t *testing.T) {
	client := newTestClient(t, noRequestHandler(t))
	path := writeTempFile(t, "notes.txt", []byte("plain text"))

	_, err := client.UploadFile(context.Background(), path, nil)
	var unsupported *UnsupportedFileTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".txt", unsupported.Ext)
}

func TestUploadFileSendsMultipart(t *testing.T) {
	var gotMethod, gotPath, gotName, gotType, gotCollection string
	var gotBody []byte
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotName = header.Filename
		gotType = header.Header.Get("Content-Type")
		buf := make([]byte, header.Size)
		_, _ = f.Read(buf)
		gotBody = buf
		gotCollection = r.FormValue("collectionId")
		_, _ = w.Write([]byte(`{"result":true,"item":{"_id":1}}`))
	}))

	path := writeTempFile(t, "shot.png", []byte("png-bytes"))
	collection := int64(12)
	_, err := client.UploadFile(context.Background(), path, &collection)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/raindrop/file", gotPath)
	assert.Equal(t, "shot.png", gotName)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "png-bytes", string(gotBody))
	assert.Equal(t, "12", gotCollection)
}

func TestImportFileSkipsTypeAllowList(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"result":true}`))
	}))

	// The importer accepts formats the upload allow-list does not, so a
	// .csv must reach the upstream.
	path := writeTempFile(t, "bookmarks.csv", []byte("id,link\n"))
	_, err := client.ImportFile(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/import/file", gotPath)
}
