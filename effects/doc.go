// Package effects is the handler registry behind boundrun's context-scoped
// effects.
//
// A handler is installed with one of the WithXxxEffectHandler functions, which
// return a derived context carrying the handler and a teardown function. Code
// running under that context performs effects (PerformResumableEffect,
// FireAndForgetEffect) without knowing how they are served. Delegation is
// explicit and scope-bound: tearing a handler down returns the parent context.
//
// The sub-packages build on it:
//   - log: zap-backed structured logging
//   - binding: configuration lookup with upper-scope delegation
//   - concurrency: supervised goroutine spawning
//   - task: the bounded-concurrency executor and its combinators
//   - cache: keyed cache operations over an LRU or ristretto store
//   - lease: named permits shared by every run in the scope
//
// Example:
//
//	func handler(ctx context.Context) {
//	    exec, _ := task.NewExecutor[string](4)
//	    ctx, end := task.WithEffectHandler(ctx, effects.NewEffectScopeConfig(8, 2), exec)
//	    defer end()
//
//	    outcomes, err := task.Eff(ctx, fetchA, fetchB, fetchC)
//	}
package effects
