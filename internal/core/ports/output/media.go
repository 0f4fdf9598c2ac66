package ports

import "context"

// Media is a downloaded attachment
type Media struct {
	ContentType string
	Data        []byte
}

// MediaFetcher downloads inbound message attachments
type MediaFetcher interface {
	Fetch(ctx context.Context, url, contentType string) (*Media, error)
	Available() bool
}

// AudioStore persists recordings and returns their public URL
type AudioStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Available() bool
}
