// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/curatus/internal/profile"
	"github.com/tomtom215/curatus/internal/recommend"
)

// mapDomainError translates recommendation and profile sentinels onto
// HTTP status and error codes. Unrecognized errors are internal.
func mapDomainError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, recommend.ErrTitleNotFound):
		return http.StatusNotFound, ErrCodeTitleNotFound, "Title not found in catalog"
	case errors.Is(err, recommend.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "Item not found"
	case errors.Is(err, profile.ErrInvalidRating):
		return http.StatusBadRequest, ErrCodeInvalidRating, "Rating must be an integer between 1 and 5"
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"
	}
}
