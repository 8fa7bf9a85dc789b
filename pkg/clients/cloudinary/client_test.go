package cloudinary

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop-feedback/pkg/logger"
)

type fakeUploadAPI struct {
	params uploader.UploadParams
	body   []byte
	result *uploader.UploadResult
	err    error
}

func (f *fakeUploadAPI) Upload(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = params
	if r, ok := file.(io.Reader); ok {
		f.body, _ = io.ReadAll(r)
	}
	return f.result, f.err
}

func newTestClient(api *fakeUploadAPI) *clientImpl {
	return &clientImpl{log: logger.Discard(), cloudName: "demo", api: api}
}

func TestUpload_ReturnsSecureURL(t *testing.T) {
	fake := &fakeUploadAPI{result: &uploader.UploadResult{
		PublicID:  "certificates/certificate-1",
		SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/certificates/certificate-1.png",
	}}
	c := newTestClient(fake)

	url, err := c.Upload(context.Background(), []byte("png-bytes"), "certificates", "certificate-1")

	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/certificates/certificate-1.png", url)
	assert.Equal(t, "certificates", fake.params.Folder)
	assert.Equal(t, "certificate-1", fake.params.PublicID)
	assert.Equal(t, "png", fake.params.Format)
	assert.Equal(t, []byte("png-bytes"), fake.body)
}

func TestUpload_ProviderErrors(t *testing.T) {
	c := newTestClient(&fakeUploadAPI{err: errors.New("network down")})
	_, err := c.Upload(context.Background(), nil, "f", "n")
	assert.ErrorContains(t, err, "network down")

	c = newTestClient(&fakeUploadAPI{result: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid Signature"}}})
	_, err = c.Upload(context.Background(), nil, "f", "n")
	assert.ErrorContains(t, err, "Invalid Signature")
}

func TestBaseURL(t *testing.T) {
	c := newTestClient(&fakeUploadAPI{})
	assert.Equal(t, "https://res.cloudinary.com/demo", c.BaseURL())
}
