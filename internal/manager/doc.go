// Package manager owns the shared model resource and coordinates the full
// request lifecycle. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, health/status getters.
//   - config.go: ManagerConfig and package defaults.
//   - gate.go: FIFO admission and the single in-flight generation slot.
//   - activate.go: adapter attach/detach with revert-on-failure.
//   - run.go: request orchestration (classify, compose, activate, generate,
//     normalize).
//   - errors.go: error types and predicates (IsBusy, IsNotFound,
//     IsAdapterLoad, IsConfiguration).
//   - events.go, eventpub_memory.go: lifecycle event publishing.
//   - metrics.go: Prometheus counters for the generation path.
//
// The attached-adapter field is the only mutable shared state; it changes
// exclusively inside activate, which itself runs inside the gate's critical
// section together with the generation it serves.
package manager
