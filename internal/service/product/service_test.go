package product

import (
	"context"
	"testing"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	created domain.Product
	updated domain.Product
}

func (s *stubRepo) List(context.Context) ([]domain.Product, error) { return nil, nil }

func (s *stubRepo) GetByID(context.Context, string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}

func (s *stubRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.created = p
	return &p, nil
}

func (s *stubRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.updated = p
	return &p, nil
}

func (s *stubRepo) Delete(context.Context, string) error { return nil }

func (s *stubRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, nil
}

func TestCreateConvertsPrice(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	_, err := svc.Create(context.Background(), Input{
		Name:  "  Lamp ",
		Price: decimal.RequireFromString("19.995"),
		Stock: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Lamp", repo.created.Name)
	assert.Equal(t, int64(2000), repo.created.PriceCents)
	assert.Equal(t, 3, repo.created.Stock)
}

func TestCreateValidation(t *testing.T) {
	svc := New(&stubRepo{})
	ctx := context.Background()

	cases := map[string]Input{
		"no name":        {Price: decimal.NewFromInt(1)},
		"negative price": {Name: "x", Price: decimal.NewFromInt(-1)},
		"negative stock": {Name: "x", Stock: -1},
	}
	for name, in := range cases {
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

func TestUpdateKeepsID(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	_, err := svc.Update(context.Background(), "p1", Input{Name: "x", Price: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, "p1", repo.updated.ID)
	assert.Equal(t, int64(500), repo.updated.PriceCents)
}

func TestFromCents(t *testing.T) {
	assert.Equal(t, "100.5", FromCents(10050).String())
	assert.True(t, FromCents(10000).Equal(decimal.NewFromInt(100)))
}
