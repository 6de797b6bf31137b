// Package prompt provides contextual action prompts, prompt groups and the
// registry that dispatches their events every tick.
//
// # Architecture
//
//	host tick ──► Registry.Sweep ──► Group.HandleEvents ──► group handlers
//	                   │                    └──────────────► Prompt.HandleEvents
//	                   └──────────────► Prompt.HandleEvents ──► prompt handlers
//
// A Prompt wraps one native widget handle (see package widget) and polls its
// state on demand. Nothing is cached between ticks: every predicate is
// re-evaluated against the binding when it is called, so HandleEvents must run
// exactly once per tick for edge events to be observed exactly once.
//
// # Ownership
//
// Prompts created with Registry.NewPrompt are standalone and tracked by the
// registry. Prompts created with Group.AddPrompt belong to the group and are
// never tracked by the registry directly; deleting the group deletes them.
//
// # Driving the Sweep
//
// Either let the registry drive everything:
//
//	reg.StartEventThread(h)
//
// or run your own per-tick loop, calling SetActiveThisFrame and HandleEvents
// on the groups and prompts you own. Both styles can be mixed; a group left
// inactive (SetActive(false)) is skipped by the registry sweep.
//
// # Events
//
// HandleEvents checks installed handlers in a fixed order:
//
//	JustPressed, JustReleased, Pressed, Released, HoldModeRunning,
//	HoldModeCompleted, then (only while the prompt is enabled)
//	ControlPressed, ControlReleased, ControlJustPressed, ControlJustReleased
//
// Several events may fire in the same call. An event without a handler is
// skipped.
//
// A prompt inside a group receives both the group's handlers and its own
// handlers for the same tick, each evaluated independently.
//
// # Lifetime
//
// Delete releases the native handle immediately. A deleted prompt or group
// must not be used again. Deleting from inside a handler is allowed: sweeps
// iterate snapshots and skip entries that were deleted mid-pass.
package prompt
