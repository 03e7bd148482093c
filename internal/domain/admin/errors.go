package admin

import "artnexus/internal/pkg/apperr"

var ErrArtisteNotFound = apperr.New(apperr.NotFound, "artiste not found")
