package helpers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/encoding/korean"

	apperrors "codecrawler/pkg/errors"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("Referer"))
		assert.Contains(t, r.Header.Get("Accept"), "text/html")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>redeem NEWCODE99</body></html>"))
	}))
	defer server.Close()

	body, err := Fetch("test", server.URL)
	assert.NoError(t, err)

	data, err := io.ReadAll(body)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "NEWCODE99")
}

func TestFetchConvertsToUTF8(t *testing.T) {
	// EUC-KR encoded body; Fetch must hand back UTF-8
	encoded, err := korean.EUCKR.NewEncoder().String("<html><body>한글 NEWCODE99</body></html>")
	assert.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=euc-kr")
		w.Write([]byte(encoded))
	}))
	defer server.Close()

	body, err := Fetch("test", server.URL)
	assert.NoError(t, err)

	data, err := io.ReadAll(body)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "한글")
	assert.Contains(t, string(data), "NEWCODE99")
}

func TestFetchHTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := Fetch("test", server.URL)
	assert.Error(t, err)

	var crawlErr *apperrors.CrawlError
	assert.ErrorAs(t, err, &crawlErr)
	assert.Equal(t, apperrors.ErrorTypeFetch, crawlErr.Type)
	assert.Equal(t, apperrors.FetchHTTPStatus, crawlErr.Fetch)
	assert.Equal(t, http.StatusInternalServerError, crawlErr.StatusCode)
	assert.True(t, crawlErr.IsRetryable())
}

func TestFetchRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := Fetch("test", server.URL)
	assert.Error(t, err)

	var crawlErr *apperrors.CrawlError
	assert.ErrorAs(t, err, &crawlErr)
	assert.Equal(t, apperrors.ErrorTypeRateLimit, crawlErr.Type)
	assert.False(t, crawlErr.IsRetryable())
}

func TestFetchEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("   \n  "))
	}))
	defer server.Close()

	_, err := Fetch("test", server.URL)
	assert.Error(t, err)

	var crawlErr *apperrors.CrawlError
	assert.ErrorAs(t, err, &crawlErr)
	assert.Equal(t, apperrors.FetchEmptyBody, crawlErr.Fetch)
}

func TestFetchConnectionFailure(t *testing.T) {
	_, err := Fetch("test", "http://127.0.0.1:1")
	assert.Error(t, err)

	var crawlErr *apperrors.CrawlError
	assert.ErrorAs(t, err, &crawlErr)
	assert.Equal(t, apperrors.ErrorTypeFetch, crawlErr.Type)
	assert.Equal(t, apperrors.FetchConnectionFailed, crawlErr.Fetch)
	assert.True(t, crawlErr.IsRetryable())
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 120*time.Second, ParseRetryAfter("120"))
	assert.Equal(t, 5*time.Minute, ParseRetryAfter(""))
	assert.Equal(t, 5*time.Minute, ParseRetryAfter("soon"))
	assert.Equal(t, 5*time.Minute, ParseRetryAfter("-1"))
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := Fetch("test", "://not-a-url")
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "test"))
}
