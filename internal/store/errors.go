package store

import "errors"

var (
	ErrNotFound             = errors.New("record not found")
	ErrStationInUse         = errors.New("station has dispensers or staff")
	ErrEmailTaken           = errors.New("email already registered")
	ErrShiftAlreadyActive   = errors.New("employee already has an active shift")
	ErrShiftNotActive       = errors.New("shift is not active")
	ErrDispenserNotAssigned = errors.New("dispenser is not assigned to the shift or its station")
	ErrReadingClosed        = errors.New("meter reading already closed")
	ErrReadingBelowStart    = errors.New("end reading is below start reading")
	ErrNegativeReading      = errors.New("meter reading cannot be negative")
	ErrStockOutOfRange      = errors.New("stock must be between zero and capacity")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidTransition    = errors.New("status change not allowed")
	ErrEmptyInvoice         = errors.New("invoice has no items")
)
