package user

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]*User
	byID    map[string]*User
	nextID  int
	touched int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*User),
		byID:    make(map[string]*User),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, u *User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return ErrEmailAlreadyUsed
	}
	r.nextID++
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	u.CreatedAt = time.Now()
	cp := *u
	r.byEmail[u.Email] = &cp
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, _ string) error {
	r.touched++
	return nil
}

// fakeHasher keeps tests fast; bcrypt itself is covered by its own package.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func TestRegister(t *testing.T) {
	t.Run("success normalizes email", func(t *testing.T) {
		svc := NewService(newFakeUserRepo(), fakeHasher{})

		u, err := svc.Register(context.Background(), RegisterRequest{
			Email:       "  Asha@Example.COM ",
			Password:    "hunter22hunter22",
			DisplayName: "Asha",
		})
		require.NoError(t, err)
		assert.Equal(t, "asha@example.com", u.Email)
		assert.Equal(t, RoleUser, u.Role)
		assert.True(t, u.IsActive)
		assert.Equal(t, "hashed:hunter22hunter22", u.PasswordHash)
	})

	t.Run("empty email", func(t *testing.T) {
		svc := NewService(newFakeUserRepo(), fakeHasher{})
		_, err := svc.Register(context.Background(), RegisterRequest{Email: "   ", Password: "hunter22hunter22"})
		assert.ErrorIs(t, err, ErrEmailRequired)
	})

	t.Run("short password", func(t *testing.T) {
		svc := NewService(newFakeUserRepo(), fakeHasher{})
		_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.com", Password: "short"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := NewService(newFakeUserRepo(), fakeHasher{})

		_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.com", Password: "hunter22hunter22"})
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), RegisterRequest{Email: "A@B.com", Password: "hunter22hunter22"})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})
}

func TestLogin(t *testing.T) {
	setup := func(t *testing.T) (Service, *fakeUserRepo) {
		repo := newFakeUserRepo()
		svc := NewService(repo, fakeHasher{})
		_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.com", Password: "hunter22hunter22"})
		require.NoError(t, err)
		return svc, repo
	}

	t.Run("success touches last login", func(t *testing.T) {
		svc, repo := setup(t)

		u, err := svc.Login(context.Background(), "A@B.com", "hunter22hunter22")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", u.Email)
		assert.Equal(t, 1, repo.touched)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.Login(context.Background(), "a@b.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.Login(context.Background(), "nobody@b.com", "hunter22hunter22")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive user forbidden", func(t *testing.T) {
		svc, repo := setup(t)
		repo.byEmail["a@b.com"].IsActive = false

		_, err := svc.Login(context.Background(), "a@b.com", "hunter22hunter22")
		assert.ErrorIs(t, err, ErrInactiveUser)
	})
}
