// Package cascade provides a wave-based task orchestration engine.
//
// A task set declares independent tasks with activation conditions,
// input/output contracts and execution policies. Runs are partitioned into
// waves: an optional planning oracle proposes the partition and a statically
// declared plan backs it. Tasks within a wave execute concurrently against a
// frozen context snapshot; completed outputs merge between waves.
//
// End users typically interact with the engine via the root Service facade:
//
//	srv := cascade.New()
//	rt := srv.Runtime()
//	taskSet, _ := rt.LoadTaskSet(ctx, "triage.yaml")
//	session, _ := rt.Run(ctx, taskSet, map[string]interface{}{"status": "active"})
//	fmt.Println(session.Summary())
//
// For more details see the README and individual sub-packages.
package cascade
