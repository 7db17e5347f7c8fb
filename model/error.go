package model

import "errors"

var (
	ErrRecordNotFound = errors.New("conclusion not found")
	ErrInvalidResult  = errors.New("invalid conclusion result")
	ErrInvalidVerdict = errors.New("invalid defect verdict")
)
