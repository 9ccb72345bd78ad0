package cartview

import (
	"testing"

	"storefront/internal/client"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id, price string, stock, qty int) client.CartProductLine {
	return client.CartProductLine{
		Product:  client.ProductRef{ID: id, Name: id, Price: decimal.RequireFromString(price), Stock: stock},
		Quantity: qty,
	}
}

func TestFromCart_KeepsServerOrder(t *testing.T) {
	v := FromCart(&client.Cart{ID: "c1", Products: []client.CartProductLine{
		line("b", "1", 1, 1),
		line("a", "2", 1, 1),
	}})
	lines := v.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "b", lines[0].ProductID)
	assert.Equal(t, "a", lines[1].ProductID)
	assert.Equal(t, "c1", v.CartID())
}

func TestSubtotal_MatchesManualSum(t *testing.T) {
	v := FromCart(&client.Cart{Products: []client.CartProductLine{
		line("p1", "100", 5, 2),
		line("p2", "12.50", 0, 3),
		line("p3", "0.10", 9, 7),
	}})

	manual := decimal.Zero
	for _, l := range v.Lines() {
		manual = manual.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	assert.True(t, v.Subtotal().Equal(manual))
	assert.Equal(t, "238.2", v.Subtotal().String())
	assert.Equal(t, 12, v.ItemCount())
}

func TestEmpty(t *testing.T) {
	for _, v := range []View{FromCart(nil), FromCart(&client.Cart{}), {}} {
		assert.True(t, v.IsEmpty())
		assert.True(t, v.Subtotal().IsZero())
		assert.Empty(t, v.Lines())
		assert.Zero(t, v.Quantity("p1"))
	}
}

func TestLinesReturnsCopy(t *testing.T) {
	v := FromCart(&client.Cart{Products: []client.CartProductLine{line("p1", "1", 1, 1)}})
	lines := v.Lines()
	lines[0].Quantity = 50
	assert.Equal(t, 1, v.Quantity("p1"))
}

func TestLineLookup(t *testing.T) {
	v := FromCart(&client.Cart{Products: []client.CartProductLine{line("p1", "3", 4, 2)}})
	l, ok := v.Line("p1")
	require.True(t, ok)
	assert.Equal(t, 4, l.Stock)
	assert.Equal(t, "6", l.Total().String())

	_, ok = v.Line("nope")
	assert.False(t, ok)
}
