package patches

import (
	"context"

	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/migrate"
	"github.com/syssam/plandb/tables"
)

// badAFKThreshold resets AFK times recorded as longer than their session.
type badAFKThreshold struct{}

func (badAFKThreshold) Name() string { return "bad_afk_threshold" }

func (badAFKThreshold) IsApplied(ctx context.Context, env *migrate.Env) (bool, error) {
	n, err := count(ctx, env, sql.Select(tables.Sessions, "COUNT(1)").Where(afkLongerThanSession).Statement())
	return n == 0, err
}

func (badAFKThreshold) Apply(ctx context.Context, env *migrate.Env) error {
	_, err := env.Driver.Execute(ctx, sql.Update(tables.Sessions, tables.SessionsAFKTime).Where(afkLongerThanSession).Statement(0))
	return err
}

var afkLongerThanSession = tables.SessionsAFKTime + ">" + tables.SessionsSessionEnd + "-" + tables.SessionsSessionStart
