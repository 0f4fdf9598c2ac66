package r2

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curumim-backend/internal/config"
	"curumim-backend/internal/core/domain"
)

type fakePutObject struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutObject) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestAudioStore_Put(t *testing.T) {
	fake := &fakePutObject{}
	store := newAudioStore(fake, "audios", "https://pub-acct.r2.dev/audios")

	url, err := store.Put(context.Background(), "curumim_audios/+55/a.ogg", "audio/ogg", []byte("data"))
	require.NoError(t, err)

	assert.Equal(t, "https://pub-acct.r2.dev/audios/curumim_audios/+55/a.ogg", url)
	assert.Equal(t, "audios", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "curumim_audios/+55/a.ogg", aws.ToString(fake.input.Key))
	assert.Equal(t, "audio/ogg", aws.ToString(fake.input.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(fake.input.ContentLength))
	assert.Equal(t, []byte("data"), fake.body)
}

func TestAudioStore_PutError(t *testing.T) {
	store := newAudioStore(&fakePutObject{err: errors.New("access denied")}, "audios", "https://x")

	_, err := store.Put(context.Background(), "k", "audio/ogg", []byte("data"))
	assert.ErrorIs(t, err, domain.ErrStorageUpload)
}

func TestNewAudioStore_Disabled(t *testing.T) {
	store, err := NewAudioStore(context.Background(), &config.R2Config{AccountID: "acct"})
	require.NoError(t, err)
	assert.False(t, store.Available())

	_, err = store.Put(context.Background(), "k", "audio/ogg", nil)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestNewAudioStore_Enabled(t *testing.T) {
	store, err := NewAudioStore(context.Background(), &config.R2Config{
		AccessKeyID: "key", SecretAccessKey: "secret", AccountID: "acct", Bucket: "audios",
	})
	require.NoError(t, err)
	assert.True(t, store.Available())
}
