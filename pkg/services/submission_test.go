package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop-feedback/pkg/config"
	"workshop-feedback/pkg/logger"
	"workshop-feedback/pkg/models"
	"workshop-feedback/pkg/repository"
	"workshop-feedback/pkg/store"
)

type submissionFixture struct {
	svc       *SubmissionService
	otp       *OTPService
	workshops *WorkshopService
	subs      *slowSubmissionRepo
}

// slowSubmissionRepo widens the window between the verification check and
// the insert, and can be told to fail inserts.
type slowSubmissionRepo struct {
	*repository.SubmissionRepo
	delay     time.Duration
	createErr error
}

func (r *slowSubmissionRepo) Create(ctx context.Context, s *models.Submission) error {
	time.Sleep(r.delay)
	if r.createErr != nil {
		return r.createErr
	}
	return r.SubmissionRepo.Create(ctx, s)
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()

	db := newTestDB(t)
	otp := NewOTPService(
		logger.Discard(),
		config.OTPConfig{TTL: time.Minute, VerifiedTTL: time.Minute},
		store.NewMemory(),
		store.NewMemory(),
		newFakeCodeSender(),
		newFakeCodeSender(),
	)
	otp.generate = func() (string, error) { return "482193", nil }

	workshops := NewWorkshopService(logger.Discard(), repository.NewWorkshopRepo(db), newFakePublisher("https://cdn"))
	subs := &slowSubmissionRepo{SubmissionRepo: repository.NewSubmissionRepo(db)}
	return &submissionFixture{
		svc:       NewSubmissionService(logger.Discard(), subs, workshops, otp),
		otp:       otp,
		workshops: workshops,
		subs:      subs,
	}
}

func (f *submissionFixture) verify(t *testing.T, ch Channel, destination string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.otp.Dispatch(ctx, ch, destination))
	require.NoError(t, f.otp.Verify(ctx, ch, destination, "482193"))
}

func fakeSubmissionRequest() models.SubmissionRequest {
	return models.SubmissionRequest{
		Name:         gofakeit.Name(),
		Course:       "B.Tech CSE",
		LearningGoal: gofakeit.Sentence(6),
		Feedback:     gofakeit.Sentence(10),
		Email:        gofakeit.Email(),
		Phone:        "+91" + gofakeit.Numerify("##########"),
	}
}

func TestSubmission_RequiresBothVerifications(t *testing.T) {
	ctx := context.Background()
	f := newSubmissionFixture(t)

	w, err := f.workshops.Create(ctx, "admin", validWorkshopRequest())
	require.NoError(t, err)

	req := fakeSubmissionRequest()

	_, err = f.svc.Create(ctx, w.ID, req)
	assert.ErrorIs(t, err, ErrNotVerified)

	f.verify(t, ChannelPhone, req.Phone)
	_, err = f.svc.Create(ctx, w.ID, req)
	assert.ErrorIs(t, err, ErrNotVerified)
	assert.True(t, f.otp.IsVerified(ChannelPhone, req.Phone))

	f.verify(t, ChannelEmail, req.Email)
	sub, err := f.svc.Create(ctx, w.ID, req)
	require.NoError(t, err)
	assert.Equal(t, w.ID, sub.FormID)
	assert.Equal(t, req.Email, sub.Email)

	assert.False(t, f.otp.IsVerified(ChannelPhone, req.Phone))
	assert.False(t, f.otp.IsVerified(ChannelEmail, req.Email))

	_, err = f.svc.Create(ctx, w.ID, req)
	assert.ErrorIs(t, err, ErrNotVerified)

	subs, err := f.svc.ListByWorkshop(ctx, w.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestSubmission_ClosedWorkshop(t *testing.T) {
	ctx := context.Background()
	f := newSubmissionFixture(t)

	closed := false
	req := validWorkshopRequest()
	req.FormActive = &closed
	w, err := f.workshops.Create(ctx, "admin", req)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, w.ID, fakeSubmissionRequest())
	assert.ErrorIs(t, err, ErrWorkshopClosed)
}

func TestSubmission_UnknownWorkshop(t *testing.T) {
	f := newSubmissionFixture(t)

	_, err := f.svc.Create(context.Background(), "missing", fakeSubmissionRequest())
	assert.ErrorIs(t, err, ErrWorkshopNotFound)

	_, err = f.svc.ListByWorkshop(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrWorkshopNotFound)
}

func TestSubmission_MissingField(t *testing.T) {
	ctx := context.Background()
	f := newSubmissionFixture(t)

	w, err := f.workshops.Create(ctx, "admin", validWorkshopRequest())
	require.NoError(t, err)

	req := fakeSubmissionRequest()
	req.Feedback = ""
	_, err = f.svc.Create(ctx, w.ID, req)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestSubmission_OneVerificationOneSubmission(t *testing.T) {
	ctx := context.Background()
	f := newSubmissionFixture(t)
	f.subs.delay = 50 * time.Millisecond

	w, err := f.workshops.Create(ctx, "admin", validWorkshopRequest())
	require.NoError(t, err)

	req := fakeSubmissionRequest()
	f.verify(t, ChannelPhone, req.Phone)
	f.verify(t, ChannelEmail, req.Email)

	const attempts = 4
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Create(ctx, w.ID, req); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrNotVerified)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	stored, err := f.svc.ListByWorkshop(ctx, w.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSubmission_FailedInsertKeepsVerifications(t *testing.T) {
	ctx := context.Background()
	f := newSubmissionFixture(t)

	w, err := f.workshops.Create(ctx, "admin", validWorkshopRequest())
	require.NoError(t, err)

	req := fakeSubmissionRequest()
	f.verify(t, ChannelPhone, req.Phone)
	f.verify(t, ChannelEmail, req.Email)

	f.subs.createErr = errors.New("disk full")
	_, err = f.svc.Create(ctx, w.ID, req)
	require.Error(t, err)
	assert.True(t, f.otp.IsVerified(ChannelPhone, req.Phone))
	assert.True(t, f.otp.IsVerified(ChannelEmail, req.Email))

	f.subs.createErr = nil
	_, err = f.svc.Create(ctx, w.ID, req)
	assert.NoError(t, err)
}

func TestSubmission_ListByEmailNeedsVerifiedEmail(t *testing.T) {
	ctx := context.Background()
	f := newSubmissionFixture(t)

	w, err := f.workshops.Create(ctx, "admin", validWorkshopRequest())
	require.NoError(t, err)

	req := fakeSubmissionRequest()
	f.verify(t, ChannelPhone, req.Phone)
	f.verify(t, ChannelEmail, req.Email)
	_, err = f.svc.Create(ctx, w.ID, req)
	require.NoError(t, err)

	_, err = f.svc.ListByEmail(ctx, req.Email)
	assert.ErrorIs(t, err, ErrNotVerified)

	f.verify(t, ChannelEmail, req.Email)
	mine, err := f.svc.ListByEmail(ctx, req.Email)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, req.Feedback, mine[0].Feedback)
	assert.True(t, f.otp.IsVerified(ChannelEmail, req.Email))

	all, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
