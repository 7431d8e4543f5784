// Package cart holds the cart/inventory consistency core: line-item
// identity, price snapshots, and the stock reservation rules that tie cart
// mutations to product quantity. The functions here mutate in-memory
// documents; callers load, lock, and persist them in one transaction.
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storefront-service/internal/model"
)

// AddParams describes one add-to-cart request
type AddParams struct {
	Quantity int
	Size     string
	Color    string
}

// Add applies an add-to-cart mutation. It merges duplicate (product, size,
// color) lines, refreshes the merged line's price snapshot from the current
// product state, and reserves stock by decrementing the product quantity.
func Add(c *model.Cart, p *model.Product, params AddParams) error {
	if params.Quantity <= 0 {
		return &ValidationError{"Quantity must be a positive number"}
	}
	if p.Stock == model.StockOutOfStock {
		return &OutOfStockError{"Product is out of stock"}
	}
	if p.Quantity < params.Quantity {
		return &OutOfStockError{fmt.Sprintf("Only %d items available in stock", p.Quantity)}
	}
	if err := ValidateSelection(p, params.Size, params.Color); err != nil {
		return err
	}

	originalPrice := p.Price
	if !originalPrice.IsPositive() {
		return &PricingError{"Invalid product price"}
	}
	unitPrice := UnitPrice(originalPrice, p.Discount)
	if !unitPrice.IsPositive() {
		return &PricingError{"Error calculating prices"}
	}

	if idx := FindItem(c.Items, p.ID, params.Size, params.Color); idx >= 0 {
		// Merge into the existing line and refresh its snapshot
		item := &c.Items[idx]
		item.Quantity += params.Quantity
		item.UnitPrice = Round2(unitPrice)
		item.OriginalPrice = Round2(originalPrice)
		item.Discount = p.Discount
		item.TotalPrice = Round2(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	} else {
		c.Items = append(c.Items, model.CartItem{
			CartID:        c.ID,
			ProductID:     p.ID,
			Quantity:      params.Quantity,
			Size:          params.Size,
			Color:         params.Color,
			UnitPrice:     Round2(unitPrice),
			OriginalPrice: Round2(originalPrice),
			Discount:      p.Discount,
			TotalPrice:    Round2(unitPrice.Mul(decimal.NewFromInt(int64(params.Quantity)))),
		})
	}

	Reserve(p, params.Quantity)
	return nil
}

// UpdateQuantity sets a line to a new quantity, reconciling the product's
// reserved stock: an increase reserves the delta, a decrease releases it,
// and zero removes the line and releases its whole reservation. The price
// snapshot is recomputed from the product's current price and discount on
// every non-removal update. The removed item, if any, is returned so callers
// can delete its row.
func UpdateQuantity(c *model.Cart, p *model.Product, newQuantity int, size, color string) (*model.CartItem, error) {
	if newQuantity < 0 {
		return nil, &ValidationError{"Quantity cannot be negative"}
	}

	idx := FindItem(c.Items, p.ID, size, color)
	if idx < 0 {
		return nil, &NotFoundError{"Item not found in cart"}
	}
	item := &c.Items[idx]

	delta := newQuantity - item.Quantity
	if delta > 0 {
		if p.Stock == model.StockOutOfStock {
			return nil, &OutOfStockError{"Product is out of stock"}
		}
		if p.Quantity < delta {
			return nil, &OutOfStockError{fmt.Sprintf(
				"Cannot add %d more items. Only %d available in stock.", delta, p.Quantity)}
		}
	}

	if newQuantity == 0 {
		Restock(p, item.Quantity)
		removed := c.Items[idx]
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		return &removed, nil
	}

	if delta > 0 {
		Reserve(p, delta)
	} else if delta < 0 {
		Restock(p, -delta)
	}

	originalPrice := p.Price
	if !originalPrice.IsPositive() {
		return nil, &PricingError{"Invalid product price"}
	}
	unitPrice := UnitPrice(originalPrice, p.Discount)

	item.Quantity = newQuantity
	item.UnitPrice = Round2(unitPrice)
	item.OriginalPrice = Round2(originalPrice)
	item.Discount = p.Discount
	item.TotalPrice = Round2(unitPrice.Mul(decimal.NewFromInt(int64(newQuantity))))
	return nil, nil
}

// Remove deletes a line and releases its full reservation. The removed item
// is returned so callers can delete its row.
func Remove(c *model.Cart, p *model.Product, size, color string) (*model.CartItem, error) {
	idx := FindItem(c.Items, p.ID, size, color)
	if idx < 0 {
		return nil, &NotFoundError{"Item not found in cart"}
	}
	item := c.Items[idx]
	Restock(p, item.Quantity)
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return &item, nil
}

// Reserve decrements product quantity for stock held by a cart line,
// clamping at zero and flipping the stock flag when inventory runs out.
func Reserve(p *model.Product, qty int) {
	p.Quantity -= qty
	if p.Quantity <= 0 {
		p.Quantity = 0
		p.Stock = model.StockOutOfStock
	}
}

// Restock returns reserved quantity to a product and lifts the stock flag
// when the restock makes it available again.
func Restock(p *model.Product, qty int) {
	p.Quantity += qty
	if p.Stock == model.StockOutOfStock && p.Quantity > 0 {
		p.Stock = model.StockInStock
	}
}

// FindItem locates a line by its (product, normalized size, normalized
// color) identity. Returns -1 when no line matches.
func FindItem(items []model.CartItem, productID uint, size, color string) int {
	for i, item := range items {
		if item.ProductID == productID &&
			Normalize(item.Size) == Normalize(size) &&
			Normalize(item.Color) == Normalize(color) {
			return i
		}
	}
	return -1
}

// Prune drops lines with a missing product reference instead of failing the
// whole write, returning the dropped lines so callers can delete their rows.
func Prune(c *model.Cart) []model.CartItem {
	var dropped []model.CartItem
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID == 0 {
			dropped = append(dropped, item)
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept
	return dropped
}

// Totals aggregates cartTotal, totalItems, and totalSavings over cart lines.
// Savings compare each line's snapshot original price against its unit price.
func Totals(items []model.CartItem) (cartTotal decimal.Decimal, totalItems int, totalSavings decimal.Decimal) {
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		cartTotal = cartTotal.Add(item.TotalPrice)
		totalItems += item.Quantity
		totalSavings = totalSavings.Add(item.OriginalPrice.Sub(item.UnitPrice).Mul(qty))
	}
	return Round2(cartTotal), totalItems, Round2(totalSavings)
}
