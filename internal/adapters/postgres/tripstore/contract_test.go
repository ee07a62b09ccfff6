package tripstore

import (
	"testing"

	"github.com/travlr-labs/travel-catalog-api/internal/adapters/contracttest"
	"github.com/travlr-labs/travel-catalog-api/internal/adapters/postgres/testutil"
	tripstoreport "github.com/travlr-labs/travel-catalog-api/internal/ports/out/tripstore"
)

func TestContract_PostgresTripStore(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunTripStore(t, func(t *testing.T) (tripstoreport.Store, contracttest.CleanupFunc) {
		t.Helper()
		testutil.TruncateAll(t, pool)
		return NewStore(pool), nil
	})
}
