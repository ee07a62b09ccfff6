package tripstore

import (
	"testing"

	"github.com/travlr-labs/travel-catalog-api/internal/adapters/contracttest"
	"github.com/travlr-labs/travel-catalog-api/internal/ports/out/tripstore"
)

func TestContract_MemoryTripStore(t *testing.T) {
	contracttest.RunTripStore(t, func(t *testing.T) (tripstore.Store, func()) {
		t.Helper()
		return NewStore(), nil
	})
}
