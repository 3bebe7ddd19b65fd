package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "resumes/1700000000123_my_cv_final.pdf", ObjectKey("resumes", "my cv  final.pdf", at))
}

func TestClient_Upload(t *testing.T) {
	var gotPath, gotName, gotType, gotAuth string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotName = r.URL.Query().Get("name")
		gotType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "portal-files", "secret")
	client.now = func() time.Time { return time.UnixMilli(42) }

	object, err := client.Upload(context.Background(), "documents", "id copy.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, "/upload/storage/v1/b/portal-files/o", gotPath)
	assert.Equal(t, "documents/42_id_copy.pdf", gotName)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, []byte("%PDF"), gotBody)

	assert.Equal(t, "documents/42_id_copy.pdf", object.Key)
	assert.Equal(t, server.URL+"/portal-files/documents/42_id_copy.pdf", object.URL)
	assert.Equal(t, int64(4), object.Size)
	assert.Equal(t, "id copy.pdf", object.Filename)
}

func TestClient_UploadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "portal-files", "")
	_, err := client.Upload(context.Background(), "documents", "a.pdf", "application/pdf", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestClient_DeleteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "portal-files", "")
	err := client.Delete(context.Background(), "resumes/1_cv.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete resumes/1_cv.pdf: status 403")
}

func TestClient_UnreachableServerWrapsCause(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, "portal-files", "")
	client.http.SetRetryCount(0)
	_, err := client.Upload(context.Background(), "documents", "a.pdf", "application/pdf", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload documents/")
	assert.NotEqual(t, err, errors.Cause(err))
}

func TestClient_DeleteIgnoresMissingObjects(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "portal-files", "")
	require.NoError(t, client.Delete(context.Background(), "resumes/1_cv.pdf"))
	assert.Equal(t, "/storage/v1/b/portal-files/o/resumes%2F1_cv.pdf", gotPath)

	assert.NoError(t, client.Delete(context.Background(), ""))
}
