// Package services holds the use-cases of the advisory backend: farmer
// login, soil lookups, weather, and crop/yield predictions.
//
// This file centralizes service-level error values so that they can be
// returned consistently by service methods and mapped to HTTP status codes at
// the handler layer.
package services

import "errors"

var (
	// ErrFarmerNotFound indicates that the referenced farmer does not exist.
	ErrFarmerNotFound = errors.New("farmer not found")

	// ErrInvalidPhone is returned when a login phone number is shorter than
	// ten characters.
	ErrInvalidPhone = errors.New("valid phone number required")

	// ErrInvalidProfile is returned when name, state or district is missing.
	ErrInvalidProfile = errors.New("name, state and district are required")

	// ErrInvalidLanguage is returned for language codes outside the catalog.
	ErrInvalidLanguage = errors.New("unsupported language")

	// ErrInvalidSeason is returned when a yield season is not Kharif, Rabi
	// or Summer.
	ErrInvalidSeason = errors.New("season must be one of Kharif, Rabi, Summer")

	// ErrInvalidArea is returned for non-positive planting areas.
	ErrInvalidArea = errors.New("area must be positive")

	// ErrMissingCrop is returned when a yield request names no crop.
	ErrMissingCrop = errors.New("crop is required")

	// ErrInvalidCoordinates is returned for out-of-range weather coordinates.
	ErrInvalidCoordinates = errors.New("lat and lon must be valid coordinates")
)
