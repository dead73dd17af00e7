package store

import "errors"

var (
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrBookedSlot = errors.New("slot is booked")
)
