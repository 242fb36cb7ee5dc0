// Package migrate runs versioned, forward-only schema patches.
//
// A Patch knows how to check whether its effects are present and how to
// apply them. The Engine walks an ordered list of Steps, each pairing a
// Patch with the schema version it brings the database to:
//
//	eng, err := migrate.NewEngine(drv, tables.Registry(), patches.Steps())
//	if err != nil {
//	    return err
//	}
//	report, err := eng.Run(ctx)
//
// For every step above the stored version the patch moves through
//
//	Unchecked -> Skipped                      when IsApplied reports true
//	Unchecked -> Applying -> Applied          when Apply succeeds
//	Unchecked -> Applying -> Failed           when Apply fails; Run stops
//
// and the version is persisted after each Skipped or Applied step. Because
// IsApplied is always checked against the post-patch shape, a run
// interrupted in the middle of a patch resumes correctly on the next start.
package migrate
