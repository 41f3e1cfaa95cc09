package model

import "errors"

var (
	ErrInvalidImage     = errors.New("invalid image format, supported: JPEG, PNG")
	ErrUnknownLabel     = errors.New("label not seen during training")
	ErrShapeMismatch    = errors.New("model output does not match metadata")
	ErrInputSize        = errors.New("input does not match model input shape")
	ErrModelUnavailable = errors.New("model not loaded")
)
