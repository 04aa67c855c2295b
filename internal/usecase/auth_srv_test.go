package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-accounts/internal/dto/request"
	"user-accounts/pkg/apperror"
	"user-accounts/pkg/token"
)

func TestSignUp_CreatesUnverifiedUserAndSendsOneEmail(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.svc.Auth.SignUp(context.Background(), signUpRequest())
	require.NoError(t, err)
	env.svc.Close()

	assert.Len(t, user.ID, 8)
	assert.False(t, user.IsVerified)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, "1990-01-02", user.DateOfBirth)

	stored, err := env.repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)

	sent := env.dispatcher.emails("verification")
	require.Len(t, sent, 1)
	assert.Equal(t, "ann01", sent[0].username)
	assert.Equal(t, "ann@example.com", sent[0].email)
	assert.Contains(t, sent[0].link, "http://api.test/verify-user?token=")

	claims, err := env.tokens.Parse(queryParam(t, sent[0].link, "token"), token.TypeVerification)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestSignUp_EmailFailureIsNotSurfaced(t *testing.T) {
	env := newTestEnv(t)
	env.dispatcher.err = errDelivery

	user, err := env.svc.Auth.SignUp(context.Background(), signUpRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestSignUp_DuplicateFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*request.SignUpRequest)
		field  string
	}{
		{"email", func(r *request.SignUpRequest) { r.Username, r.PhoneNumber, r.LicenseNumber = "u2", "+15550002", "LIC-2" }, "email"},
		{"username", func(r *request.SignUpRequest) { r.Email, r.PhoneNumber, r.LicenseNumber = "b@x.com", "+15550002", "LIC-2" }, "username"},
		{"phone", func(r *request.SignUpRequest) { r.Email, r.Username, r.LicenseNumber = "b@x.com", "u2", "LIC-2" }, "phone_number"},
		{"license", func(r *request.SignUpRequest) { r.Email, r.Username, r.PhoneNumber = "b@x.com", "u2", "+15550002" }, "license_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.signUp(t, signUpRequest())

			req := signUpRequest()
			tt.mutate(req)
			_, err := env.svc.Auth.SignUp(context.Background(), req)
			require.Error(t, err)

			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
			assert.Contains(t, apperror.FieldErrors(err), tt.field)

			all, err := env.repo.FindAll(context.Background())
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestSignUp_Validation(t *testing.T) {
	env := newTestEnv(t)

	req := signUpRequest()
	req.Password = "short"
	req.DateOfBirth = "02/01/1990"

	_, err := env.svc.Auth.SignUp(context.Background(), req)
	require.Error(t, err)

	fields := apperror.FieldErrors(err)
	assert.Equal(t, "Minimum length is 8", fields["password"])
	assert.Equal(t, "Date has wrong format. Use YYYY-MM-DD", fields["date_of_birth"])
	assert.Empty(t, env.dispatcher.emails("verification"))
}

func TestVerifyEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.signUp(t, signUpRequest())
	other := signUpRequest()
	other.Email, other.Username, other.PhoneNumber, other.LicenseNumber = "b@x.com", "bob", "+15550002", "LIC-2"
	second := env.signUp(t, other)

	tok, err := env.tokens.IssueVerification(first)
	require.NoError(t, err)

	require.NoError(t, env.svc.Auth.VerifyEmail(ctx, tok))

	u1, _ := env.repo.FindByID(ctx, first)
	u2, _ := env.repo.FindByID(ctx, second)
	assert.True(t, u1.IsVerified)
	assert.False(t, u2.IsVerified)

	// second verification is a no-op
	require.NoError(t, env.svc.Auth.VerifyEmail(ctx, tok))
}

func TestVerifyEmail_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.signUp(t, signUpRequest())

	expiredIssuer, err := token.NewManager(testSecret, "HS256", time.Minute, time.Minute, -time.Minute)
	require.NoError(t, err)
	expired, err := expiredIssuer.IssueVerification(id)
	require.NoError(t, err)

	err = env.svc.Auth.VerifyEmail(ctx, expired)
	assert.Equal(t, apperror.KindToken, apperror.KindOf(err))
	assert.Equal(t, "Activation link expired.", apperror.PublicMessage(err))

	err = env.svc.Auth.VerifyEmail(ctx, "not-a-jwt")
	assert.Equal(t, "Invalid token.", apperror.PublicMessage(err))

	err = env.svc.Auth.VerifyEmail(ctx, "")
	assert.Equal(t, "Invalid token.", apperror.PublicMessage(err))

	access, err := env.tokens.IssueAccess(id)
	require.NoError(t, err)
	err = env.svc.Auth.VerifyEmail(ctx, access)
	assert.Equal(t, "Invalid token.", apperror.PublicMessage(err))

	ghost, err := env.tokens.IssueVerification("deadbeef")
	require.NoError(t, err)
	err = env.svc.Auth.VerifyEmail(ctx, ghost)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, "User not found", apperror.PublicMessage(err))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.signUp(t, signUpRequest())

	tokens, err := env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "ann@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	access, err := env.tokens.Parse(tokens.Access, token.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, id, access.UserID)

	refresh, err := env.tokens.Parse(tokens.Refresh, token.TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, id, refresh.UserID)

	stored, _ := env.repo.FindByID(ctx, id)
	assert.NotNil(t, stored.LastLogin)
}

func TestLogin_UniformFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signUp(t, signUpRequest())

	_, wrongPassword := env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "ann@example.com", Password: "wrong-pass"})
	_, unknownEmail := env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, "Invalid credentials. Try again.", apperror.PublicMessage(wrongPassword))
	assert.Equal(t, apperror.KindAuthentication, apperror.KindOf(unknownEmail))
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.signUp(t, signUpRequest())

	pair, err := env.tokens.IssuePair(id)
	require.NoError(t, err)

	tokens, err := env.svc.Auth.Refresh(ctx, &request.RefreshRequest{Refresh: pair.Refresh})
	require.NoError(t, err)
	assert.Empty(t, tokens.Refresh)

	claims, err := env.tokens.Parse(tokens.Access, token.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)

	_, err = env.svc.Auth.Refresh(ctx, &request.RefreshRequest{Refresh: pair.Access})
	assert.Equal(t, "Invalid token.", apperror.PublicMessage(err))
}

func TestCreateSuperuser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.svc.Auth.CreateSuperuser(ctx, signUpRequest())
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	stored, _ := env.repo.FindByID(ctx, user.ID)
	assert.True(t, stored.IsStaff)
	assert.True(t, stored.IsSuperuser)
	assert.Empty(t, env.dispatcher.emails("verification"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "Ann@example.com", normalizeEmail(" Ann@EXAMPLE.com "))
	assert.Equal(t, "no-at-sign", normalizeEmail("no-at-sign"))
}

func TestBuildLink(t *testing.T) {
	assert.Equal(t,
		"http://h/password-reset-confirm?uid=YWJj&token=1-a%2Bb",
		buildLink("http://h/", "/password-reset-confirm", "uid", "YWJj", "token", "1-a+b"))
}
