// Package storage defines interfaces and implementations for capacity
// reading storage backends.
package storage

import (
	"context"
	"sync"

	"github.com/edwenger/larval-habitat/internal/types"
)

// EngineInterface is an interface that provides a few standardized
// methods for various storage backends
type EngineInterface interface {
	StartStorageEngine(context.Context, *sync.WaitGroup) chan<- types.CapacityReading
}
