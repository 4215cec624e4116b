package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudflare/cloudflare-go"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-bitmap/internal/adapter"
	"github.com/feral-file/ff-bitmap/internal/domain"
	"github.com/feral-file/ff-bitmap/internal/logger"
)

// Config holds the Cloudflare Images publishing settings
type Config struct {
	AccountID string
	// InitialInterval is the first retry delay; 0 uses the backoff default
	InitialInterval time.Duration
	// MaxElapsedTime bounds the total time spent retrying; 0 uses the backoff default
	MaxElapsedTime time.Duration
}

// Result describes a published image
type Result struct {
	ID       string
	Filename string
	Variants []string
	Uploaded time.Time
}

// Publisher uploads encoded images
type Publisher interface {
	// Publish uploads data under a generated name with the extension of format
	Publish(ctx context.Context, format domain.ContainerFormat, data []byte, metadata map[string]interface{}) (*Result, error)
}

type cloudflarePublisher struct {
	client adapter.CloudflareClient
	clock  adapter.Clock
	config Config
	rc     *cloudflare.ResourceContainer
}

// NewCloudflarePublisher creates a publisher backed by Cloudflare Images
func NewCloudflarePublisher(client adapter.CloudflareClient, clock adapter.Clock, config Config) Publisher {
	return &cloudflarePublisher{
		client: client,
		clock:  clock,
		config: config,
		rc: &cloudflare.ResourceContainer{
			Level:      cloudflare.AccountRouteLevel,
			Identifier: config.AccountID,
		},
	}
}

func (p *cloudflarePublisher) Publish(ctx context.Context, format domain.ContainerFormat, data []byte, metadata map[string]interface{}) (*Result, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedContainerFormat, string(format))
	}
	if len(data) == 0 {
		return nil, errors.New("nothing to publish: empty image data")
	}

	filename := ulid.MustNewDefault(p.clock.Now()).String() + format.Extension()

	b := backoff.NewExponentialBackOff()
	if p.config.InitialInterval > 0 {
		b.InitialInterval = p.config.InitialInterval
	}
	if p.config.MaxElapsedTime > 0 {
		b.MaxElapsedTime = p.config.MaxElapsedTime
	}

	var image cloudflare.Image
	operation := func() error {
		// Every attempt needs a fresh reader over the same bytes
		params := cloudflare.UploadImageParams{
			File:     io.NopCloser(bytes.NewReader(data)),
			Name:     filename,
			Metadata: metadata,
		}

		var err error
		image, err = p.client.UploadImage(ctx, p.rc, params)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	var attemptCount int
	notifyOnError := func(err error, next time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Image upload failed, retrying",
			zap.Error(err),
			zap.String("filename", filename),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", next),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notifyOnError); err != nil {
		return nil, fmt.Errorf("failed to upload %s after %d attempts: %w", filename, attemptCount+1, err)
	}

	logger.InfoCtx(ctx, "Successfully uploaded to Cloudflare Images",
		zap.String("imageID", image.ID),
		zap.String("filename", filename),
		zap.Int("variantCount", len(image.Variants)),
	)

	return &Result{
		ID:       image.ID,
		Filename: filename,
		Variants: image.Variants,
		Uploaded: image.Uploaded,
	}, nil
}

// retryable reports whether an upload error may succeed on a later attempt
func retryable(err error) bool {
	var authnErr *cloudflare.AuthenticationError
	var authzErr *cloudflare.AuthorizationError
	var reqErr *cloudflare.RequestError
	var notFoundErr *cloudflare.NotFoundError
	switch {
	case errors.As(err, &authnErr), errors.As(err, &authzErr), errors.As(err, &reqErr), errors.As(err, &notFoundErr):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
