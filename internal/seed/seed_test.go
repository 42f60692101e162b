package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolvax/internal/app/repositories/inmem"
	"github.com/yigit/schoolvax/internal/pkg/auth"
)

func TestCreateDefaultData(t *testing.T) {
	ctx := context.Background()
	repos := inmem.NewRepositories(inmem.NewStore())
	demo := Coordinator{Name: "Demo", Email: " Demo@School.edu ", Password: "demo-password", School: "Demo School"}

	require.NoError(t, CreateDefaultData(ctx, repos.Coordinators, demo, zerolog.Nop()))

	c, err := repos.Coordinators.GetByEmail(ctx, "demo@school.edu")
	require.NoError(t, err)
	assert.Equal(t, "Demo School", c.School)
	assert.True(t, auth.CheckPassword(c.PasswordHash, "demo-password"))

	// second run keeps the existing account
	require.NoError(t, CreateDefaultData(ctx, repos.Coordinators, demo, zerolog.Nop()))
	again, err := repos.Coordinators.GetByEmail(ctx, "demo@school.edu")
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
}
