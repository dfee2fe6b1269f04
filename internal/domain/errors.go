package domain

import "errors"

var (
	ErrNotFound       = errors.New("resource not found")
	ErrEmptyDocument  = errors.New("document text is empty or too short to extract from")
	ErrReportNotFound = errors.New("validation report not found")
)
