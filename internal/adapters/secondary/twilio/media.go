package twilio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"curumim-backend/internal/config"
	"curumim-backend/internal/core/domain"
	output "curumim-backend/internal/core/ports/output"
)

type mediaFetcher struct {
	httpClient *http.Client
	accountSID string
	authToken  string
	maxBytes   int64
	enabled    bool
}

// NewMediaFetcher creates a MediaFetcher that downloads attachments with the
// account credentials. Without credentials every Fetch fails with
// domain.ErrMediaUnavailable.
func NewMediaFetcher(cfg *config.TwilioConfig) output.MediaFetcher {
	if !cfg.Enabled() {
		return &mediaFetcher{enabled: false}
	}

	timeout := cfg.MediaTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &mediaFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		maxBytes:   cfg.MediaMaxBytes,
		enabled:    true,
	}
}

func (f *mediaFetcher) Available() bool {
	return f.enabled
}

// Fetch downloads a media URL. Twilio answers with a redirect to its CDN;
// the default client follows it and drops the credentials on the new host.
func (f *mediaFetcher) Fetch(ctx context.Context, url, contentType string) (*output.Media, error) {
	if !f.enabled {
		return nil, domain.ErrMediaUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create media request: %w", err)
	}
	req.SetBasicAuth(f.accountSID, f.authToken)

	log.WithField("url", url).Debug("downloading media from twilio")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMediaDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrMediaDownload, resp.StatusCode)
	}

	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return nil, domain.ErrMediaTooLarge
	}

	body := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrMediaDownload, err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, domain.ErrMediaTooLarge
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = contentType
	}

	return &output.Media{ContentType: ct, Data: data}, nil
}
