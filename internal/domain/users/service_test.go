package users

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeUserRepo struct {
	byID map[string]User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context) (map[Role]int, error) {
	out := make(map[Role]int)
	for _, u := range r.byID {
		out[u.Role]++
	}
	return out, nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		in   SignupInput
	}{
		{"empty username", SignupInput{Email: "a@b.com", Password: "password1", Role: "adopter"}},
		{"empty email", SignupInput{Username: "ana", Password: "password1", Role: "adopter"}},
		{"bad email", SignupInput{Username: "ana", Email: "not-an-email", Password: "password1", Role: "adopter"}},
		{"short password", SignupInput{Username: "ana", Email: "a@b.com", Password: "short", Role: "adopter"}},
		{"unknown role", SignupInput{Username: "ana", Email: "a@b.com", Password: "password1", Role: "wizard"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Signup(ctx, tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSignupAndAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{
		Username: "ana",
		Email:    "Ana@Example.com",
		Password: "password1",
		Role:     "shelter",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Fatalf("email should be normalized, got %q", u.Email)
	}
	if u.Role != RoleShelter {
		t.Fatalf("role = %q", u.Role)
	}
	if u.Status != StatusActive {
		t.Fatalf("status = %q", u.Status)
	}
	if u.PasswordHash == "password1" {
		t.Fatal("password stored in plain text")
	}

	got, err := svc.Authenticate(ctx, "ana@example.com", "password1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated wrong user: %q", got.ID)
	}

	if _, err := svc.Authenticate(ctx, "ana@example.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	in := SignupInput{Username: "ana", Email: "a@b.com", Password: "password1", Role: "adopter"}
	if _, err := svc.Signup(ctx, in); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	in.Username = "otra"
	if _, err := svc.Signup(ctx, in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticateBlockedAccount(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Username: "ana", Email: "a@b.com", Password: "password1", Role: "adopter"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	u.Status = StatusBlocked
	repo.byID[u.ID] = u

	if _, err := svc.Authenticate(ctx, "a@b.com", "password1"); !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Username: "ana", Email: "a@b.com", Password: "password1", Role: "adopter"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	name := "ana maria"
	got, err := svc.UpdateProfile(ctx, u.ID, ProfileInput{Username: &name})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if got.Username != "ana maria" {
		t.Fatalf("username = %q", got.Username)
	}
	if got.Email != "a@b.com" {
		t.Fatalf("email should not change, got %q", got.Email)
	}

	bad := ""
	if _, err := svc.UpdateProfile(ctx, u.ID, ProfileInput{Username: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty username: expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Username: "ana", Email: "a@b.com", Password: "password1", Role: "adopter"}); err != nil {
		t.Fatalf("signup ana: %v", err)
	}
	u, err := svc.Signup(ctx, SignupInput{Username: "beto", Email: "b@b.com", Password: "password1", Role: "adopter"})
	if err != nil {
		t.Fatalf("signup beto: %v", err)
	}

	taken := "a@b.com"
	if _, err := svc.UpdateProfile(ctx, u.ID, ProfileInput{Email: &taken}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAdminUpdateStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Username: "ana", Email: "a@b.com", Password: "password1", Role: "adopter"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	blocked := "blocked"
	got, err := svc.AdminUpdate(ctx, u.ID, AdminUpdateInput{Status: &blocked})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if got.Status != StatusBlocked {
		t.Fatalf("status = %q", got.Status)
	}
	if got.Role != RoleAdopter {
		t.Fatalf("role must not change, got %q", got.Role)
	}

	bogus := "frozen"
	if _, err := svc.AdminUpdate(ctx, u.ID, AdminUpdateInput{Status: &bogus}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bogus status: expected ErrInvalidInput, got %v", err)
	}
}
