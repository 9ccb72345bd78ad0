package contact

import (
	"context"
	"testing"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	last domain.Contact
}

func (s *stubRepo) ListByUser(context.Context, string) ([]domain.Contact, error) { return nil, nil }

func (s *stubRepo) Get(context.Context, string, string) (*domain.Contact, error) {
	return nil, domain.ErrNotFound
}

func (s *stubRepo) Create(_ context.Context, c domain.Contact) (*domain.Contact, error) {
	s.last = c
	return &c, nil
}

func (s *stubRepo) Update(_ context.Context, c domain.Contact) (*domain.Contact, error) {
	s.last = c
	return &c, nil
}

func (s *stubRepo) Delete(context.Context, string, string) error { return nil }

func TestCreateScopesToUser(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	_, err := svc.Create(context.Background(), "u1", Input{Name: " Ann ", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "u1", repo.last.UserID)
	assert.Equal(t, "Ann", repo.last.Name)
}

func TestCreateValidation(t *testing.T) {
	svc := New(&stubRepo{})
	_, err := svc.Create(context.Background(), "u1", Input{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Create(context.Background(), "u1", Input{Name: "a", Email: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateSetsID(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	_, err := svc.Update(context.Background(), "u1", "c1", Input{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, "c1", repo.last.ID)
	assert.Equal(t, "u1", repo.last.UserID)
}
