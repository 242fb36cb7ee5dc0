package migrate

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/plandb/dialect/sqlschema"
)

func newEnv(t *testing.T) *Env {
	t.Helper()
	drv := openSQLite(t)
	return &Env{
		Driver:    drv,
		Registry:  testRegistry(),
		Inspector: sqlschema.NewInspector(drv),
		Log:       slog.Default(),
	}
}

func TestEnvAddColumn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newEnv(t)
	require.NoError(t, env.Driver.Exec(ctx, "CREATE TABLE plan_items (id integer PRIMARY KEY, name varchar(50) NOT NULL)"))
	require.NoError(t, env.Driver.Exec(ctx, "INSERT INTO plan_items (name) VALUES (?)", "a"))

	ok, err := env.HasColumn(ctx, "plan_items", "extra")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, env.AddColumn(ctx, "plan_items", "extra"))
	require.NoError(t, env.AddColumn(ctx, "plan_items", "extra"), "adding an existing column is a no-op")
	ok, err = env.HasColumn(ctx, "plan_items", "extra")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Error(t, env.AddColumn(ctx, "plan_missing", "extra"))
	require.Error(t, env.AddColumn(ctx, "plan_items", "undeclared"))
}

func TestEnvTables(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newEnv(t)

	require.NoError(t, env.CreateTable(ctx, "plan_items"))
	require.NoError(t, env.CreateTable(ctx, "plan_items"))
	require.Error(t, env.CreateTable(ctx, "plan_missing"))

	tmp := env.TempTable("plan_items")
	assert.Equal(t, "temp_items", tmp)
	require.NoError(t, env.RenameTable(ctx, "plan_items", tmp))
	ok, err := env.HasTable(ctx, "plan_items")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = env.HasTable(ctx, tmp)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, env.DropTable(ctx, tmp))
	require.NoError(t, env.DropTable(ctx, tmp))
	ok, err = env.HasTable(ctx, tmp)
	require.NoError(t, err)
	assert.False(t, ok)
}
