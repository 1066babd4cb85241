// Package parallel applies a side-effecting operation to every element of a
// fixed collection with a bounded pool of workers and a single join barrier.
//
// There is no fan-in: results are whatever op does with its item. Shared
// state touched by op must be synchronized by the caller, typically with a
// counter from package counter.
package parallel
