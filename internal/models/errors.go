package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every "missing entity" error below.
var ErrNotFound = errors.New("not found")

var (
	ErrShipmentNotFound = fmt.Errorf("shipment %w", ErrNotFound)
	ErrGroupNotFound    = fmt.Errorf("group ID %w", ErrNotFound)
)
