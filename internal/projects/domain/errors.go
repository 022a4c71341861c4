package domain

import "errors"

var (
	ErrNotFound           = errors.New("project not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrDownloadForbidden  = errors.New("attachment download not allowed for this viewer")
	ErrForbidden          = errors.New("operation not allowed for this viewer")
	ErrInvalidPhase       = errors.New("invalid phase")
	ErrInvalidStatus      = errors.New("invalid phase status")
)
