package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CouponService validates coupon codes against a cart and records
// redemptions. The usage counters are the only multi-writer state in the
// system, so both increments are guarded conditional updates ("increment
// only while below the limit") executed in one transaction; concurrent
// redemptions can never push a counter past its limit.
type CouponService struct {
	DB *gorm.DB
}

// ValidationResult is returned on a successful redemption.
type ValidationResult struct {
	Coupon         *models.Coupon
	DiscountAmount float64
	FinalTotal     float64
}

// CartLine is the slice of cart state coupon validation needs.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
}

// NormalizeCode canonicalizes a coupon code the way it is stored.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks eligibility in a fixed order, short-circuiting at the
// first failing gate, then atomically records the redemption.
func (s *CouponService) Validate(userID uuid.UUID, code string, cartTotal float64, items []CartLine) (*ValidationResult, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, &ValidationError{"coupon code is required"}
	}

	var coupon models.Coupon
	err := s.DB.Where("code = ?", code).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{"coupon not found"}
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !coupon.IsActive {
		return nil, &InvalidStateError{"This coupon is no longer active"}
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return nil, &InvalidStateError{"This coupon is not active yet"}
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return nil, &InvalidStateError{"This coupon has expired"}
	}
	if cartTotal < coupon.MinimumOrderValue {
		return nil, &InvalidStateError{fmt.Sprintf("Minimum order value is $%.2f", coupon.MinimumOrderValue)}
	}
	if coupon.UsageCount >= coupon.GlobalLimit {
		return nil, &InvalidStateError{"This coupon has reached its usage limit"}
	}
	if coupon.Category == models.CouponCategoryProduct {
		if coupon.ProductID == nil || !containsProduct(items, *coupon.ProductID) {
			return nil, &InvalidStateError{"This coupon applies to a specific product that is not in your cart"}
		}
	}

	var usage models.CouponUsage
	err = s.DB.Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).First(&usage).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && usage.Count >= coupon.UserLimit {
		return nil, &InvalidStateError{"You have reached the usage limit for this coupon"}
	}

	discount := coupon.DiscountAmount(cartTotal)

	if err := s.redeem(&coupon, userID); err != nil {
		return nil, err
	}

	finalTotal := cartTotal - discount
	if finalTotal < 0 {
		finalTotal = 0
	}
	return &ValidationResult{
		Coupon:         &coupon,
		DiscountAmount: discount,
		FinalTotal:     finalTotal,
	}, nil
}

// redeem bumps both counters with increment-if-below-limit updates. Either
// guard failing (another request won the race) rolls back the whole
// redemption and rejects with the same message as the pre-check.
func (s *CouponService) redeem(coupon *models.Coupon, userID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Coupon{}).
			Where("id = ? AND usage_count < ?", coupon.ID, coupon.GlobalLimit).
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &InvalidStateError{"This coupon has reached its usage limit"}
		}
		coupon.UsageCount++

		var usage models.CouponUsage
		err := tx.Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).First(&usage).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if coupon.UserLimit < 1 {
				return &InvalidStateError{"You have reached the usage limit for this coupon"}
			}
			usage = models.CouponUsage{CouponID: coupon.ID, UserID: userID, Count: 1}
			if err := tx.Create(&usage).Error; err != nil {
				// A concurrent first redemption inserted the row between the
				// read and this insert. The failed insert aborts the
				// transaction, so the guarded update cannot run here.
				if isDuplicateKey(err) {
					return &InvalidStateError{"You have reached the usage limit for this coupon"}
				}
				return err
			}
			return nil
		}
		if err != nil {
			return err
		}

		res = tx.Model(&models.CouponUsage{}).
			Where("coupon_id = ? AND user_id = ? AND count < ?", coupon.ID, userID, coupon.UserLimit).
			UpdateColumn("count", gorm.Expr("count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &InvalidStateError{"You have reached the usage limit for this coupon"}
		}
		return nil
	})
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

func containsProduct(items []CartLine, productID uuid.UUID) bool {
	for _, item := range items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
