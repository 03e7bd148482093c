package catalog

import "artnexus/internal/pkg/apperr"

var (
	ErrArtNotFound      = apperr.New(apperr.NotFound, "art not found")
	ErrOwnerNotFound    = apperr.New(apperr.NotFound, "artiste not found")
	ErrCountryNotFound  = apperr.New(apperr.NotFound, "country not found")
	ErrArtTypeNotFound  = apperr.New(apperr.NotFound, "art type not found")
	ErrNotArtOwner      = apperr.New(apperr.Forbidden, "only the owner can modify this art")
	ErrArtHasPurchases  = apperr.New(apperr.Conflict, "art has purchases and cannot be deleted")
	ErrArtSold          = apperr.New(apperr.Conflict, "art has a pending or approved purchase and cannot be relisted")
	ErrEmptyTitle       = apperr.New(apperr.InvalidInput, "title is required")
	ErrNonPositivePrice = apperr.New(apperr.InvalidInput, "price must be greater than zero")
)
