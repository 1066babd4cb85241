// Package counter provides a shared integer accumulator in two
// interchangeable flavours: Locked (mutex, scoped acquisition) and Atomic
// (lock-free fetch-and-add). Both guarantee that after concurrent
// increments complete, Load equals the initial value plus their sum.
package counter
