package usecase

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-accounts/internal/data/repository"
	"user-accounts/internal/dto/request"
	"user-accounts/pkg/token"
)

const testSecret = "test-secret"

type sentEmail struct {
	kind     string
	username string
	email    string
	link     string
}

// recordingDispatcher stores every email instead of sending it.
type recordingDispatcher struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (d *recordingDispatcher) SendVerification(_ context.Context, username, email, link string) error {
	return d.record("verification", username, email, link)
}

func (d *recordingDispatcher) SendPasswordReset(_ context.Context, username, email, link string) error {
	return d.record("reset", username, email, link)
}

func (d *recordingDispatcher) record(kind, username, email, link string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentEmail{kind, username, email, link})
	return d.err
}

func (d *recordingDispatcher) emails(kind string) []sentEmail {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []sentEmail
	for _, e := range d.sent {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	svc        *Service
	repo       *repository.MemoryUserRepository
	dispatcher *recordingDispatcher
	tokens     *token.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := token.NewManager(testSecret, "HS256", 5*time.Minute, 24*time.Hour, 24*time.Hour)
	require.NoError(t, err)

	memRepo := repository.NewMemoryUserRepository()
	dispatcher := &recordingDispatcher{}
	svc := NewService(
		&repository.Repository{User: memRepo},
		Credentials{Tokens: tokens, Resets: token.NewResetTokens(testSecret, 72*time.Hour)},
		dispatcher,
		zap.NewNop(),
	)
	t.Cleanup(svc.Close)

	return &testEnv{svc: svc, repo: memRepo, dispatcher: dispatcher, tokens: tokens}
}

func signUpRequest() *request.SignUpRequest {
	return &request.SignUpRequest{
		Name:          "Ann Smith",
		Gender:        "female",
		Email:         "ann@Example.COM",
		Username:      "ann01",
		DateOfBirth:   "1990-01-02",
		Address:       "1 Main St",
		PhoneNumber:   "+15550001",
		LicenseNumber: "LIC-1",
		Password:      "s3cret-pass",
		BaseURL:       "http://api.test",
	}
}

// signUp registers a user and waits for the verification email.
func (e *testEnv) signUp(t *testing.T, req *request.SignUpRequest) string {
	t.Helper()

	user, err := e.svc.Auth.SignUp(context.Background(), req)
	require.NoError(t, err)
	e.svc.Close()
	return user.ID
}

func queryParam(t *testing.T, link, key string) string {
	t.Helper()

	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get(key)
}

var errDelivery = errors.New("courier unavailable")
