package service

import (
	"context"
	"testing"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const strongPassword = "Correct-Horse-9-Battery"

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	svc := NewAuthService(repository.NewUserRepository(testutil.NewTestDB(t)))
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func TestAuthService_SignupAndAuthenticate(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupInput{
		Username:  "leo",
		Email:     "Leo@Example.com",
		Password:  strongPassword,
		FirstName: "Leo",
		LastName:  "Tolstoy",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "leo@example.com", user.Email)
	assert.NotEqual(t, strongPassword, user.Password)

	got, err := svc.Authenticate(ctx, "leo", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "leo", "wrong-password")
	assertAppErrorCode(t, err, models.CodeUnauthorized)

	_, err = svc.Authenticate(ctx, "nobody", strongPassword)
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), SignupInput{Username: "x", Email: "nope", Password: "short"})
	appErr := assertValidationError(t, err)
	assert.Contains(t, appErr.Fields, "username")
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "password")
}

func TestAuthService_Signup_DuplicateUsername(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Username: "anna", Email: "anna@example.com", Password: strongPassword})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{Username: "anna", Email: "other@example.com", Password: strongPassword})
	appErr := assertValidationError(t, err)
	assert.Contains(t, appErr.Fields, "username")
}

func TestUserService_SetAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateUser(t, db, "boss")
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	user, err := svc.SetAdmin(ctx, "boss", true)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	reloaded, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsAdmin)

	_, err = svc.SetAdmin(ctx, "ghost", true)
	assertNotFoundError(t, err)
}
