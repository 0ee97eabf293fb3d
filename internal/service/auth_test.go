package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/sakif/blogstack/internal/apperror"
	"github.com/sakif/blogstack/internal/auth"
	"github.com/sakif/blogstack/internal/model"
)

// mockUserRepo is an in-memory repository.UserRepository. It mirrors the
// store rules the service depends on: unique emails and the first account
// getting the admin flag.
type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("email", "You've already signed up with that email. Login instead.")
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.IsAdmin = len(m.users) == 0
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	found := *u
	return &found, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "no such user"}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	svc := NewAuthService(repo, auth.NewPasswordServiceForTest(4), testLogger())
	return svc, repo
}

func TestRegister(t *testing.T) {
	svc, repo := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "Alice", "Alice@Example.com ", "secret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == 0 {
		t.Error("Register() did not assign an ID")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want normalized %q", user.Email, "alice@example.com")
	}
	if user.PasswordHash == "secret" || user.PasswordHash == "" {
		t.Error("Register() must store a hash, never the plaintext")
	}
	if !user.IsAdmin {
		t.Error("first registered user should be admin")
	}
	if len(repo.users) != 1 {
		t.Errorf("store holds %d users, want 1", len(repo.users))
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@x.com", "p"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(ctx, "B", "a@x.com", "other")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second Register() error = %v, want ErrConflict", err)
	}
	if len(repo.users) != 1 {
		t.Errorf("store holds %d users after duplicate registration, want 1", len(repo.users))
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name                  string
		userName, email, pass string
	}{
		{"missing name", "", "a@x.com", "p"},
		{"missing email", "A", "", "p"},
		{"email without @", "A", "not-an-email", "p"},
		{"missing password", "A", "a@x.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.userName, tt.email, tt.pass)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Alice", "a@x.com", "correct")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.Login(ctx, "a@x.com", "correct")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("Login() user ID = %d, want %d", user.ID, registered.ID)
	}
}

// Unknown email and wrong password must be indistinguishable: same sentinel,
// same message.
func TestLogin_UniformFailure(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "a@x.com", "correct"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, errWrongPass := svc.Login(ctx, "a@x.com", "wrong")
	_, errNoUser := svc.Login(ctx, "ghost@x.com", "whatever")

	if !errors.Is(errWrongPass, apperror.ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", errWrongPass)
	}
	if !errors.Is(errNoUser, apperror.ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", errNoUser)
	}
	if errWrongPass.Error() != errNoUser.Error() {
		t.Errorf("failure messages differ: %q vs %q — responses must not leak account existence",
			errWrongPass.Error(), errNoUser.Error())
	}
}

func TestGetUserByID_InvalidID(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.GetUserByID(context.Background(), 0); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("GetUserByID(0) error = %v, want ErrValidation", err)
	}
}
