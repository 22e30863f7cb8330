package drive

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minevcs/minevcs/internal/domain"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestIndex(t *testing.T, handler http.HandlerFunc) *Index {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	idx, err := NewIndex(t.Context(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return idx
}

func TestIndex_LatestUpload(t *testing.T) {
	var query string
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		require.Equal(t, "modifiedTime desc", r.URL.Query().Get("orderBy"))
		require.Equal(t, "1", r.URL.Query().Get("pageSize"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"files":[{"id":"f1","name":"Survival.zip","modifiedTime":"2026-05-04T10:11:12.000Z"}]}`)
	})

	got, err := idx.LatestUpload(t.Context(), "Survival")
	require.NoError(t, err)
	require.True(t, time.Date(2026, 5, 4, 10, 11, 12, 0, time.UTC).Equal(got))
	require.Equal(t, "name = 'Survival.zip' and 'root' in parents and trashed = false", query)
}

func TestIndex_NoRemoteCopy(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"files":[]}`)
	})

	_, err := idx.LatestUpload(t.Context(), "Survival")
	require.ErrorIs(t, err, domain.ErrNoRemoteCopy)
}

func TestIndex_APIError(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"code":401,"message":"Invalid Credentials"}}`)
	})

	_, err := idx.LatestUpload(t.Context(), "Survival")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrNoRemoteCopy)
}

func TestQuote(t *testing.T) {
	require.Equal(t, `Steve\'s World`, quote("Steve's World"))
	require.Equal(t, `a\\b`, quote(`a\b`))
}
