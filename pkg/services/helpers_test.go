package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"workshop-feedback/pkg/clients/mailer"
	"workshop-feedback/pkg/database"
)

type fakeCodeSender struct {
	mu    sync.Mutex
	sent  map[string]string
	err   error
	calls int
}

func newFakeCodeSender() *fakeCodeSender {
	return &fakeCodeSender{sent: make(map[string]string)}
}

func (f *fakeCodeSender) SendCode(_ context.Context, destination, code string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.sent[destination] = code
	return nil
}

func (f *fakeCodeSender) last(destination string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[destination]
}

type fakeMail struct {
	mu   sync.Mutex
	msgs []mailer.Message
	err  error
}

func (f *fakeMail) Send(msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

type fakeSMS struct {
	phone, body string
}

func (f *fakeSMS) SendSMS(phone, body string) error {
	f.phone, f.body = phone, body
	return nil
}

type fakePublisher struct {
	mu      sync.Mutex
	baseURL string
	uploads map[string][]byte
	err     error
}

func newFakePublisher(baseURL string) *fakePublisher {
	return &fakePublisher{baseURL: baseURL, uploads: make(map[string][]byte)}
}

func (f *fakePublisher) Upload(_ context.Context, data []byte, folder, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	key := folder + "/" + name
	f.uploads[key] = data
	return f.baseURL + "/image/upload/" + key + ".png", nil
}

func (f *fakePublisher) BaseURL() string {
	return f.baseURL
}

type fakeShortener struct {
	short string
	err   error
}

func (f *fakeShortener) CreateShortLink(_ context.Context, _ string) (string, error) {
	return f.short, f.err
}

// templateFetcher serves an in-memory PNG for any URL and remembers which
// URLs were asked for.
type templateFetcher struct {
	mu   sync.Mutex
	png  []byte
	urls []string
}

func newTemplateFetcher(t *testing.T, w, h int) *templateFetcher {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &templateFetcher{png: buf.Bytes()}
}

func (f *templateFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	if f.png == nil {
		return nil, errors.New("not found")
	}
	return f.png, nil
}

func (f *templateFetcher) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
