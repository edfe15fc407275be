package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyBook — корректный ответ без бидов и/или асков.
var ErrEmptyBook = errors.New("no book data")

// FetchError — сеть, не-2xx или битый ответ источника.
type FetchError struct {
	Symbol   string
	Op       string // "ticker" | "depth"
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s fetch failed: %v (endpoint=%s)", e.Symbol, e.Op, e.Err, e.Endpoint)
}

func (e *FetchError) Unwrap() error { return e.Err }

// EmptyBookError — стакан пришёл, но одна из сторон пустая.
type EmptyBookError struct {
	Symbol   string
	Endpoint string
	NoBids   bool
	NoAsks   bool
}

func (e *EmptyBookError) Error() string {
	side := "both sides"
	switch {
	case e.NoBids && !e.NoAsks:
		side = "bids"
	case e.NoAsks && !e.NoBids:
		side = "asks"
	}
	return fmt.Sprintf("%s: no book data, empty %s (endpoint=%s)", e.Symbol, side, e.Endpoint)
}

func (e *EmptyBookError) Is(target error) bool { return target == ErrEmptyBook }
