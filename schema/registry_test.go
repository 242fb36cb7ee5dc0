package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry(users(), sessions(), kills())
	require.NoError(t, err)
	require.Equal(t, 3, reg.Len())

	names := func(tables []*Table) []string {
		out := make([]string, len(tables))
		for i, t := range tables {
			out[i] = t.Name
		}
		return out
	}
	require.Equal(t, []string{"plan_users", "plan_sessions", "plan_kills"}, names(reg.Tables()))
	require.Equal(t, []string{"plan_kills", "plan_sessions", "plan_users"}, names(reg.Reverse()))

	tbl, ok := reg.Table("plan_sessions")
	require.True(t, ok)
	require.Equal(t, "plan_sessions", tbl.Name)
	_, ok = reg.Table("plan_ping")
	require.False(t, ok)
	require.Equal(t, "plan_kills", reg.MustTable("plan_kills").Name)
	require.Panics(t, func() { reg.MustTable("plan_ping") })

	// Callers cannot reorder the registry.
	tables := reg.Tables()
	tables[0], tables[2] = tables[2], tables[0]
	require.Equal(t, "plan_users", reg.Tables()[0].Name)
}

func TestNewRegistryRejectsInvalidOrder(t *testing.T) {
	_, err := NewRegistry(kills(), users(), sessions())
	require.Error(t, err)
	require.Contains(t, err.Error(), "not created earlier")
	require.Panics(t, func() { MustRegistry(kills()) })
}
