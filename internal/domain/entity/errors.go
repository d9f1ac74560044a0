// Package entity contains the core business objects of the project.
package entity

import "coti/internal/errors"

// Validation sentinels returned by entity constructors. The usecase layer maps
// them onto the user-facing error taxonomy.
var (
	ErrListTitleRequired       = errors.New("list title is required")
	ErrListItemsRequired       = errors.New("list must contain at least one item")
	ErrListItemNameRequired    = errors.New("list item name is required")
	ErrListItemQuantityInvalid = errors.New("list item quantity must be positive")
	ErrListBudgetNegative      = errors.New("budget values must not be negative")
	ErrListBudgetRange         = errors.New("min budget must not exceed max budget")
	ErrListDeliveryTypeInvalid = errors.New("delivery type must be delivery or pickup")

	ErrOfferPriceInvalid = errors.New("offer price must be positive")

	ErrRatingValueInvalid = errors.New("rating value must be between 1 and 5")
)
