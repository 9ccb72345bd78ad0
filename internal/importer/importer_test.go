package importer

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `Name,Description,Price,Image,Stock
Desk Lamp,Warm light,49.99,https://example.com/lamp.jpg,12
,,,,
Mug,,$12.5,,
`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo, nil)

	count, err := imp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, repo.items, 2)

	lamp := repo.items[0]
	assert.Equal(t, "Desk Lamp", lamp.Name)
	assert.Equal(t, "Warm light", lamp.Description)
	assert.Equal(t, int64(4999), lamp.PriceCents)
	assert.Equal(t, "https://example.com/lamp.jpg", lamp.Image)
	assert.Equal(t, 12, lamp.Stock)

	mug := repo.items[1]
	assert.Equal(t, int64(1250), mug.PriceCents)
	assert.Zero(t, mug.Stock)
}

func TestCSVImporter_InvalidRows(t *testing.T) {
	cases := map[string]string{
		"missing column": "name,description\nLamp,x\n",
		"bad price":      "name,price\nLamp,cheap\n",
		"negative stock": "name,price,stock\nLamp,1,-2\n",
		"no name":        "name,price\n,1\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &stubProductRepo{}
			_, err := NewCSVImporter(strings.NewReader(data), repo, nil).Run(context.Background())
			assert.Error(t, err)
			assert.Empty(t, repo.items)
		})
	}
}

func TestCSVImporter_StopsAtFirstBadRow(t *testing.T) {
	data := "name,price\nLamp,1\nMug,oops\nPlate,2\n"
	repo := &stubProductRepo{}
	count, err := NewCSVImporter(strings.NewReader(data), repo, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
	assert.Equal(t, 1, count)
}
