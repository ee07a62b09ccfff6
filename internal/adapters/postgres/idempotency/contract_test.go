package idempotency

import (
	"testing"

	"github.com/travlr-labs/travel-catalog-api/internal/adapters/contracttest"
	"github.com/travlr-labs/travel-catalog-api/internal/adapters/postgres/testutil"
	idempotencyport "github.com/travlr-labs/travel-catalog-api/internal/ports/out/idempotency"
)

func TestContract_PostgresIdempotencyStore(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunIdempotencyStore(t, func(t *testing.T) (idempotencyport.Store, contracttest.CleanupFunc) {
		t.Helper()
		testutil.TruncateAll(t, pool)
		return NewStore(pool), nil
	})
}
