// Package testutil provides recording components for lifecycle tests.
//
//	rec := testutil.NewRecorder()
//	a := testutil.NewComponent("A", rec, "B")
//	b := testutil.NewComponent("B", rec)
//	// register a and b, run Init
//	if !rec.Before(testutil.HookInit, "B", "A") { ... }
package testutil
