package publisher_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cloudflare/cloudflare-go"
	"github.com/golang/mock/gomock"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-bitmap/internal/domain"
	"github.com/feral-file/ff-bitmap/internal/mocks"
	"github.com/feral-file/ff-bitmap/internal/publisher"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newPublisher(t *testing.T) (publisher.Publisher, *mocks.MockCloudflareClient) {
	ctrl := gomock.NewController(t)
	mockClient := mocks.NewMockCloudflareClient(ctrl)
	mockClock := mocks.NewMockClock(ctrl)
	mockClock.EXPECT().Now().Return(fixedNow).AnyTimes()

	p := publisher.NewCloudflarePublisher(mockClient, mockClock, publisher.Config{
		AccountID:       "account-123",
		InitialInterval: time.Millisecond,
		MaxElapsedTime:  time.Second,
	})
	return p, mockClient
}

func TestPublish_Success(t *testing.T) {
	p, mockClient := newPublisher(t)
	data := []byte("\x89PNG fake")
	metadata := map[string]interface{}{"source": "mandelbrot"}

	mockClient.EXPECT().
		UploadImage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rc *cloudflare.ResourceContainer, params cloudflare.UploadImageParams) (cloudflare.Image, error) {
			assert.Equal(t, cloudflare.AccountRouteLevel, rc.Level)
			assert.Equal(t, "account-123", rc.Identifier)
			assert.True(t, strings.HasSuffix(params.Name, ".png"))
			assert.Equal(t, metadata, params.Metadata)

			body, err := io.ReadAll(params.File)
			require.NoError(t, err)
			assert.Equal(t, data, body)

			return cloudflare.Image{ID: "img-1", Filename: params.Name, Variants: []string{"https://imagedelivery.net/x/img-1/public"}}, nil
		})

	res, err := p.Publish(context.Background(), domain.ContainerFormatPNG, data, metadata)
	require.NoError(t, err)
	assert.Equal(t, "img-1", res.ID)
	assert.Len(t, res.Variants, 1)

	id, err := ulid.ParseStrict(strings.TrimSuffix(res.Filename, ".png"))
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(fixedNow), id.Time())
}

func TestPublish_RetriesTransientFailures(t *testing.T) {
	p, mockClient := newPublisher(t)
	data := []byte("jpeg bytes")

	gomock.InOrder(
		mockClient.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(cloudflare.Image{}, errors.New("connection reset")),
		mockClient.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *cloudflare.ResourceContainer, params cloudflare.UploadImageParams) (cloudflare.Image, error) {
				// The retry re-reads the payload from the start
				body, err := io.ReadAll(params.File)
				require.NoError(t, err)
				assert.Equal(t, data, body)
				return cloudflare.Image{ID: "img-2"}, nil
			}),
	)

	res, err := p.Publish(context.Background(), domain.ContainerFormatJPEG, data, nil)
	require.NoError(t, err)
	assert.Equal(t, "img-2", res.ID)
	assert.True(t, strings.HasSuffix(res.Filename, ".jpg"))
}

func TestPublish_CanceledContextStopsRetrying(t *testing.T) {
	p, mockClient := newPublisher(t)
	ctx, cancel := context.WithCancel(context.Background())

	mockClient.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *cloudflare.ResourceContainer, cloudflare.UploadImageParams) (cloudflare.Image, error) {
			cancel()
			return cloudflare.Image{}, context.Canceled
		})

	_, err := p.Publish(ctx, domain.ContainerFormatGIF, []byte("GIF89a"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPublish_InvalidInput(t *testing.T) {
	p, _ := newPublisher(t)

	_, err := p.Publish(context.Background(), domain.ContainerFormat("webp"), []byte("x"), nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedContainerFormat)

	_, err = p.Publish(context.Background(), domain.ContainerFormatPNG, nil, nil)
	assert.Error(t, err)
}
