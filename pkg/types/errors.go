package types

import "errors"

var (
	// ErrInvalidTime возвращается при некорректном формате времени "HH:mm"
	ErrInvalidTime = errors.New("types: invalid time format")
)
