package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curumim-backend/internal/config"
	"curumim-backend/internal/core/domain"
)

func testConfig(maxBytes int64) *config.TwilioConfig {
	return &config.TwilioConfig{
		AccountSID:    "AC123",
		AuthToken:     "token",
		MediaTimeout:  5 * time.Second,
		MediaMaxBytes: maxBytes,
	}
}

func TestMediaFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "audio/ogg")
		_, _ = w.Write([]byte("OggS-data"))
	}))
	defer srv.Close()

	f := NewMediaFetcher(testConfig(1024))
	require.True(t, f.Available())

	media, err := f.Fetch(context.Background(), srv.URL+"/media/ME1", "audio/amr")
	require.NoError(t, err)
	assert.Equal(t, "audio/ogg", media.ContentType)
	assert.Equal(t, []byte("OggS-data"), media.Data)
}

func TestMediaFetcher_FollowsRedirect(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("audio"))
	}))
	defer cdn.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, cdn.URL+"/blob", http.StatusTemporaryRedirect)
	}))
	defer api.Close()

	f := NewMediaFetcher(testConfig(1024))
	media, err := f.Fetch(context.Background(), api.URL+"/media/ME1", "audio/ogg")
	require.NoError(t, err)
	assert.Equal(t, []byte("audio"), media.Data)
}

func TestMediaFetcher_Errors(t *testing.T) {
	t.Run("non 2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewMediaFetcher(testConfig(1024)).Fetch(context.Background(), srv.URL, "audio/ogg")
		assert.ErrorIs(t, err, domain.ErrMediaDownload)
	})

	t.Run("too large", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 64)))
		}))
		defer srv.Close()

		_, err := NewMediaFetcher(testConfig(16)).Fetch(context.Background(), srv.URL, "audio/ogg")
		assert.ErrorIs(t, err, domain.ErrMediaTooLarge)
	})

	t.Run("disabled", func(t *testing.T) {
		f := NewMediaFetcher(&config.TwilioConfig{})
		assert.False(t, f.Available())

		_, err := f.Fetch(context.Background(), "http://unused", "audio/ogg")
		assert.ErrorIs(t, err, domain.ErrMediaUnavailable)
	})
}
