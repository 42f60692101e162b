//go:build testutil
// +build testutil

package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolvax/internal/app/repositories"
	"github.com/yigit/schoolvax/internal/testutil/testdb"
)

func TestPostgresRepositories(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(h.Close)

	runRepositoryContract(t, func(t *testing.T) *repositories.Repositories {
		require.NoError(t, h.Reset(ctx))
		return repositories.NewRepositories(h.Pool)
	})
}
