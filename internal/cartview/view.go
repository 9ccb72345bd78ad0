// Package cartview is a read-only projection of the latest server cart.
// A View never changes; a new server response produces a new View.
package cartview

import (
	"storefront/internal/client"

	"github.com/shopspring/decimal"
)

type Line struct {
	ProductID   string
	Name        string
	Description string
	Image       string
	Price       decimal.Decimal
	Stock       int
	Quantity    int
}

// Total is Price × Quantity for the line.
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type View struct {
	cartID string
	lines  []Line
}

// FromCart builds a View from a server snapshot. A nil cart yields the
// empty view.
func FromCart(cart *client.Cart) View {
	if cart == nil {
		return View{}
	}
	lines := make([]Line, 0, len(cart.Products))
	for _, p := range cart.Products {
		lines = append(lines, Line{
			ProductID:   p.Product.ID,
			Name:        p.Product.Name,
			Description: p.Product.Description,
			Image:       p.Product.Image,
			Price:       p.Product.Price,
			Stock:       p.Product.Stock,
			Quantity:    p.Quantity,
		})
	}
	return View{cartID: cart.ID, lines: lines}
}

func (v View) CartID() string {
	return v.cartID
}

// Lines returns a copy of the lines in server order.
func (v View) Lines() []Line {
	out := make([]Line, len(v.lines))
	copy(out, v.lines)
	return out
}

func (v View) Line(productID string) (Line, bool) {
	for _, l := range v.lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// Quantity returns the line's quantity, or 0 when the product is absent.
func (v View) Quantity(productID string) int {
	l, _ := v.Line(productID)
	return l.Quantity
}

// Subtotal sums quantity × price over all lines. It is recomputed on every
// call.
func (v View) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range v.lines {
		total = total.Add(l.Total())
	}
	return total
}

func (v View) ItemCount() int {
	n := 0
	for _, l := range v.lines {
		n += l.Quantity
	}
	return n
}

func (v View) IsEmpty() bool {
	return len(v.lines) == 0
}
