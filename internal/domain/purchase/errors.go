package purchase

import "artnexus/internal/pkg/apperr"

var (
	ErrPurchaseNotFound = apperr.New(apperr.NotFound, "purchase not found")
	ErrNotAvailable     = apperr.New(apperr.NotAvailable, "art is not available for purchase")
	ErrOwnArt           = apperr.New(apperr.Forbidden, "artistes cannot buy their own art")
	ErrAlreadyApproved  = apperr.New(apperr.AlreadyApproved, "purchase is already approved")
	ErrAlreadyProcessed = apperr.New(apperr.AlreadyProcessed, "purchase was already rejected")
	ErrInvalidStatus    = apperr.New(apperr.InvalidInput, "status must be pending, approved or rejected")
)
