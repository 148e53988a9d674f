package services

import "storefront/internal/models"

// AggregateCart sums price × quantity over the cart in minor units and
// builds one order line per cart row. Lines copy the item's display fields
// and carry no identifiers, so they cannot collide with the live rows.
func AggregateCart(cart []models.CartItem) (int64, []models.OrderItem) {
	var total int64
	lines := make([]models.OrderItem, 0, len(cart))
	for _, ci := range cart {
		total += ci.Item.Price * int64(ci.Quantity)
		lines = append(lines, models.OrderItem{
			Title:       ci.Item.Title,
			Description: ci.Item.Description,
			Image:       ci.Item.Image,
			LargeImage:  ci.Item.LargeImage,
			Price:       ci.Item.Price,
			Quantity:    ci.Quantity,
		})
	}
	return total, lines
}
