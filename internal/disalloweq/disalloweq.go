// Package disalloweq provides a method for disallowing struct comparisons
// with the `==` operator.
package disalloweq

// DisallowEqual, when embedded in a struct, causes the compiler to reject
// attempts to compare instances of that struct with the `==` operator.
// Field elements and points must be compared through their Equal methods,
// never structurally.
type DisallowEqual [0]func()
