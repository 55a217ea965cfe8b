package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"

	CouponCategoryGlobal  = "global"
	CouponCategoryProduct = "product"

	DefaultCouponUserLimit   = 2
	DefaultCouponGlobalLimit = 50
)

// Coupon is a discount code plus its redemption bookkeeping. UsageCount is
// the global counter; per-user counts live in CouponUsage rows. Both are
// only ever incremented through guarded conditional updates in
// services.CouponService, never read-modify-write.
type Coupon struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Code              string         `gorm:"uniqueIndex;not null" json:"code"` // stored trimmed and upper-cased
	DiscountType      string         `gorm:"not null" json:"discount_type"`    // percentage, fixed
	DiscountValue     float64        `gorm:"not null" json:"discount_value"`
	Category          string         `gorm:"default:global" json:"category"` // global, product
	ProductID         *uuid.UUID     `gorm:"type:uuid;index" json:"product_id,omitempty"`
	UserLimit         int            `gorm:"default:2" json:"user_limit"`
	GlobalLimit       int            `gorm:"default:50" json:"global_limit"`
	UsageCount        int            `gorm:"default:0" json:"usage_count"`
	MinimumOrderValue float64        `gorm:"default:0" json:"minimum_order_value"`
	StartsAt          *time.Time     `json:"starts_at,omitempty"`
	ExpiresAt         *time.Time     `json:"expires_at,omitempty"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// CouponUsage records how many times one user has redeemed one coupon.
type CouponUsage struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CouponID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_user" json:"coupon_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_user" json:"user_id"`
	Count     int       `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.UserLimit == 0 {
		c.UserLimit = DefaultCouponUserLimit
	}
	if c.GlobalLimit == 0 {
		c.GlobalLimit = DefaultCouponGlobalLimit
	}
	return nil
}

func (u *CouponUsage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DiscountAmount computes the discount this coupon grants against a cart
// total, clamped so the discount never exceeds the total.
func (c *Coupon) DiscountAmount(cartTotal float64) float64 {
	var amount float64
	switch c.DiscountType {
	case DiscountTypePercentage:
		amount = cartTotal * c.DiscountValue / 100
	case DiscountTypeFixed:
		amount = c.DiscountValue
	}
	if amount > cartTotal {
		amount = cartTotal
	}
	return amount
}
