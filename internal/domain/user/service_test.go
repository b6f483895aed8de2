package user

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeUserRepo struct {
	users  map[uint]*User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *User) error {
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID uint) (*User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) CountByUsername(ctx context.Context, username string, excludeID uint) (int64, error) {
	var count int64
	for _, user := range r.users {
		if user.ID != excludeID && strings.EqualFold(user.Username, username) {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) CountByEmail(ctx context.Context, email string, excludeID uint) (int64, error) {
	var count int64
	for _, user := range r.users {
		if user.ID != excludeID && strings.EqualFold(user.Email, email) {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, userID uint, update ProfileUpdate) error {
	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	return nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	service := NewService(newFakeUserRepo())
	ctx := context.Background()

	created, err := service.Register(ctx, RegisterInput{
		Username: "anna",
		Email:    "anna@example.com",
		Password: "tajnehaslo",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.PasswordHash == "tajnehaslo" {
		t.Fatal("password stored in plaintext")
	}

	authed, err := service.Authenticate(ctx, "anna", "tajnehaslo")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != created.ID {
		t.Errorf("authenticated user id = %d, want %d", authed.ID, created.ID)
	}

	if _, err := service.Authenticate(ctx, "anna", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := service.Authenticate(ctx, "nobody", "tajnehaslo"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	service := NewService(newFakeUserRepo())
	ctx := context.Background()

	if _, err := service.Register(ctx, RegisterInput{Username: "anna", Email: "anna@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := service.Register(ctx, RegisterInput{Username: "anna", Email: "other@example.com", Password: "secret1"}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username err = %v, want ErrUsernameTaken", err)
	}
	if _, err := service.Register(ctx, RegisterInput{Username: "other", Email: "anna@example.com", Password: "secret1"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email err = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	service := NewService(newFakeUserRepo())

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "anna", Email: "anna@example.com", Password: "12345",
	})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("err = %v, want ErrPasswordTooShort", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewService(repo)
	ctx := context.Background()

	anna, err := service.Register(ctx, RegisterInput{Username: "anna", Email: "anna@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := service.Register(ctx, RegisterInput{Username: "beata", Email: "beata@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	email := "anna@new.example.com"
	updated, err := service.UpdateProfile(ctx, anna.ID, ProfileUpdate{Email: &email})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Email != email {
		t.Errorf("email = %q, want %q", updated.Email, email)
	}
	if updated.Username != "anna" {
		t.Errorf("username = %q, want anna (untouched)", updated.Username)
	}

	taken := "beata"
	if _, err := service.UpdateProfile(ctx, anna.ID, ProfileUpdate{Username: &taken}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("taken username err = %v, want ErrUsernameTaken", err)
	}
}
