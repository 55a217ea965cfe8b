package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is the single per-user cart document. The totals are derived from
// Items and must only ever be written together with the item mutation that
// produced them (see services.CartService).
type Cart struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Items       []CartItem `gorm:"foreignKey:CartID" json:"items"`
	TotalItems  int        `gorm:"default:0" json:"total_items"`
	UniqueItems int        `gorm:"default:0" json:"unique_items"`
	TotalPrice  float64    `gorm:"default:0" json:"total_price"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CartItem is one line in a cart. CartItemID is the deterministic variant
// identity (product + size + color); the cart holds at most one line per
// CartItemID. Name, image and unit price are frozen at add time and are not
// re-synced when the catalog changes.
type CartItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CartID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_line" json:"cart_id"`
	CartItemID string    `gorm:"not null;uniqueIndex:idx_cart_line" json:"cart_item_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Name       string    `gorm:"not null" json:"name"`
	Image      string    `gorm:"not null" json:"image"`
	Price      float64   `gorm:"not null" json:"price"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Size       string    `json:"size,omitempty"`
	Color      string    `json:"color,omitempty"`
	Position   int       `gorm:"not null;default:0" json:"-"` // preserves insertion order
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// BuildCartItemID derives the variant identity for a cart line. Absent size
// or color collapse to "default" so the same product without variants always
// merges into one line.
func BuildCartItemID(productID uuid.UUID, size, color string) string {
	if size == "" {
		size = "default"
	}
	if color == "" {
		color = "default"
	}
	return fmt.Sprintf("%s-%s-%s", productID, size, color)
}

// Recalculate rebuilds the derived totals from Items.
func (c *Cart) Recalculate() {
	c.TotalItems = 0
	c.TotalPrice = 0
	for _, item := range c.Items {
		c.TotalItems += item.Quantity
		c.TotalPrice += item.Price * float64(item.Quantity)
	}
	c.UniqueItems = len(c.Items)
}
