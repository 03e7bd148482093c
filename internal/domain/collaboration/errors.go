package collaboration

import "artnexus/internal/pkg/apperr"

var (
	ErrCollaborationNotFound = apperr.New(apperr.NotFound, "collaboration not found")
	ErrNotOwner              = apperr.New(apperr.Forbidden, "only the project owner can change this collaboration")
	ErrEmptyProjectName      = apperr.New(apperr.InvalidInput, "project name is required")
)
