// Package core contains the plumbing shared by the relay packages: options
// carried through context (worker count, idle timeout, logger), channel
// feeders, and the locomotive loop that drives a fixed set of workers over
// an input channel. It holds no domain logic of its own.
package core
