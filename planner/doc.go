// Package planner generates and tunes individualized workout sessions.
//
// # Reading Guide
//
// Start with these three files to understand the core:
//   - scorer.go: multi-dimension movement scoring and qualification
//   - optimizer.go: greedy session assembly under the relaxation ladder
//   - rpe.go: the target-effort (RPE) advisory pipeline
//
// # Architecture
//
// The planner package is pure computation over immutable inputs; collaborators
// live in sub-packages:
//   - planner/catalog/: movement/circuit catalog, user profile, and recovery
//     signal providers (the upstream data sources)
//   - planner/quality/: session/microcycle quality validators and the outcome
//     metrics tracker (downstream consumers)
//
// Configuration comes from two YAML documents (scoring and optimization),
// loaded into an immutable Snapshot. A Handle exposes the current snapshot
// behind an atomic pointer so hot-reloads never block or tear a reader:
// every request pins one snapshot for its whole duration.
//
// Scoring walks a static dispatch table of per-dimension rule lists
// (first-match, priority-ordered). The optimizer retries the greedy selection
// under a 7-step constraint-relaxation ladder, from strict to emergency mode,
// and reports OPTIMAL, FEASIBLE, or INFEASIBLE; infeasibility is a result, not
// an error. All of it is deterministic: identical inputs produce identical
// sessions.
package planner
