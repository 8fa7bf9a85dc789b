package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadAPI is the part of the Cloudinary SDK the client needs.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// Client uploads images to Cloudinary and returns their secure delivery URL
type Client interface {
	Upload(ctx context.Context, data []byte, folder, name string) (string, error)
	BaseURL() string
}

type clientImpl struct {
	log       *slog.Logger
	cloudName string
	api       uploadAPI
}

// NewClient creates a new Cloudinary client
func NewClient(log *slog.Logger, cloudName, apiKey, apiSecret string) (Client, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("error creating cloudinary client: %w", err)
	}

	return &clientImpl{
		log:       log,
		cloudName: cloudName,
		api:       &cld.Upload,
	}, nil
}

func (c *clientImpl) BaseURL() string {
	return fmt.Sprintf("https://res.cloudinary.com/%s", c.cloudName)
}

func (c *clientImpl) Upload(ctx context.Context, data []byte, folder, name string) (string, error) {
	const op = "cloudinary.Upload"

	res, err := c.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   folder,
		PublicID: name,
		Format:   "png",
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("%s: %w", op, errors.New(res.Error.Message))
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("%s: empty secure_url in response", op)
	}

	c.log.Info("uploaded image",
		slog.String("op", op),
		slog.String("public_id", res.PublicID),
		slog.Int("bytes", len(data)),
	)
	return res.SecureURL, nil
}
