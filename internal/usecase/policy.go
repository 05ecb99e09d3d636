package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rounding selects how fractional points are settled.
type Rounding string

const (
	RoundingFloor  Rounding = "floor"
	RoundingHalfUp Rounding = "round"
)

// PointsPolicy converts an order total into loyalty points.
type PointsPolicy struct {
	PerUnit  int64
	Rounding Rounding
}

// DefaultPointsPolicy awards one point per whole currency unit.
func DefaultPointsPolicy() PointsPolicy {
	return PointsPolicy{PerUnit: 1, Rounding: RoundingFloor}
}

// NewPointsPolicy validates the rounding mode name.
func NewPointsPolicy(perUnit int64, rounding string) (PointsPolicy, error) {
	if perUnit <= 0 {
		return PointsPolicy{}, fmt.Errorf("points per unit must be positive, got %d", perUnit)
	}
	switch Rounding(rounding) {
	case RoundingFloor, RoundingHalfUp:
	default:
		return PointsPolicy{}, fmt.Errorf("unknown rounding %q", rounding)
	}
	return PointsPolicy{PerUnit: perUnit, Rounding: Rounding(rounding)}, nil
}

// PointsFor returns the points earned for total. Non-positive totals earn nothing.
func (p PointsPolicy) PointsFor(total decimal.Decimal) int64 {
	if !total.IsPositive() {
		return 0
	}
	perUnit := p.PerUnit
	if perUnit <= 0 {
		perUnit = 1
	}
	scaled := total.Mul(decimal.NewFromInt(perUnit))
	if p.Rounding == RoundingHalfUp {
		return scaled.Round(0).IntPart()
	}
	return scaled.Floor().IntPart()
}

// ReferralPolicy holds the bonuses paid for referrals.
type ReferralPolicy struct {
	SignupBonus     int64
	FirstOrderBonus int64
}
