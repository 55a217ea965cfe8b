package services

import (
	"errors"

	"storefront-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartService owns the per-user cart aggregate. Every mutation recomputes
// the derived totals and writes them in the same transaction as the item
// change, so no reader can observe a cart whose totals disagree with its
// items.
type CartService struct {
	DB *gorm.DB
}

// AddItemInput carries the fields a client supplies when adding a product
// to the cart. Size and color are optional variant selectors; they are not
// cross-checked against the catalog.
type AddItemInput struct {
	ProductID uuid.UUID
	Name      string
	Price     float64
	Quantity  int
	Image     string
	Size      string
	Color     string
}

func (in *AddItemInput) validate() error {
	switch {
	case in.ProductID == uuid.Nil:
		return &ValidationError{"product id is required"}
	case in.Name == "":
		return &ValidationError{"product name is required"}
	case in.Price <= 0:
		return &ValidationError{"price is required"}
	case in.Image == "":
		return &ValidationError{"product image is required"}
	case in.Quantity < 1:
		return &ValidationError{"quantity must be at least 1"}
	}
	return nil
}

// Get returns the user's cart, creating and persisting an empty one on
// first access.
func (s *CartService) Get(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.DB.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := s.DB.Create(&cart).Error; err != nil {
			return nil, err
		}
		cart.Items = []models.CartItem{}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return s.load(cart.ID)
}

// AddItem merges the given product variant into the cart: an existing line
// with the same cart item id has its quantity incremented, otherwise a new
// line is appended.
func (s *CartService) AddItem(userID uuid.UUID, in AddItemInput) (*models.Cart, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	cartItemID := models.BuildCartItemID(in.ProductID, in.Size, in.Color)

	var cartID uuid.UUID
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := loadOrCreate(tx, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		merged := false
		for i := range cart.Items {
			if cart.Items[i].CartItemID == cartItemID {
				cart.Items[i].Quantity += in.Quantity
				if err := tx.Model(&cart.Items[i]).Update("quantity", cart.Items[i].Quantity).Error; err != nil {
					return err
				}
				merged = true
				break
			}
		}
		if !merged {
			// Positions are never reused after a removal, so new lines go
			// after the highest surviving position, not at len(items).
			position := 0
			for i := range cart.Items {
				if cart.Items[i].Position >= position {
					position = cart.Items[i].Position + 1
				}
			}
			item := models.CartItem{
				CartID:     cart.ID,
				CartItemID: cartItemID,
				ProductID:  in.ProductID,
				Name:       in.Name,
				Image:      in.Image,
				Price:      in.Price,
				Quantity:   in.Quantity,
				Size:       in.Size,
				Color:      in.Color,
				Position:   position,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			cart.Items = append(cart.Items, item)
		}

		return saveTotals(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return s.load(cartID)
}

// UpdateItemQuantity replaces (not increments) the quantity of one line.
func (s *CartService) UpdateItemQuantity(userID uuid.UUID, cartItemID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, &ValidationError{"quantity must be at least 1"}
	}

	var cartID uuid.UUID
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := loadForUser(tx, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		found := false
		for i := range cart.Items {
			if cart.Items[i].CartItemID == cartItemID {
				cart.Items[i].Quantity = quantity
				if err := tx.Model(&cart.Items[i]).Update("quantity", quantity).Error; err != nil {
					return err
				}
				found = true
				break
			}
		}
		if !found {
			return &NotFoundError{"cart item not found"}
		}

		return saveTotals(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return s.load(cartID)
}

// RemoveItem deletes one line from the cart.
func (s *CartService) RemoveItem(userID uuid.UUID, cartItemID string) (*models.Cart, error) {
	var cartID uuid.UUID
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := loadForUser(tx, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		idx := -1
		for i := range cart.Items {
			if cart.Items[i].CartItemID == cartItemID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return &NotFoundError{"cart item not found"}
		}

		if err := tx.Delete(&cart.Items[idx]).Error; err != nil {
			return err
		}
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

		return saveTotals(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return s.load(cartID)
}

// Clear removes every line and zeroes the totals. It fails with NotFoundError
// only when the user has never had a cart.
func (s *CartService) Clear(userID uuid.UUID) (*models.Cart, error) {
	var cartID uuid.UUID
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := loadForUser(tx, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		cart.Items = nil

		return saveTotals(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return s.load(cartID)
}

// load fetches a cart with its lines in insertion order.
func (s *CartService) load(cartID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&cart, "id = ?", cartID).Error
	if err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

func loadForUser(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{"cart not found"}
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func loadOrCreate(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	cart, err := loadForUser(tx, userID)
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		created := models.Cart{UserID: userID}
		if err := tx.Create(&created).Error; err != nil {
			return nil, err
		}
		return &created, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// saveTotals recomputes the derived totals from cart.Items and writes them.
// Called inside the mutating transaction, always with the zero values
// included (a cleared cart must persist zeros, which gorm's struct updates
// would skip).
func saveTotals(tx *gorm.DB, cart *models.Cart) error {
	cart.Recalculate()
	return tx.Model(cart).Updates(map[string]interface{}{
		"total_items":  cart.TotalItems,
		"unique_items": cart.UniqueItems,
		"total_price":  cart.TotalPrice,
	}).Error
}
