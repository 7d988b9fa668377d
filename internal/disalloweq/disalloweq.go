// Package disalloweq provides a zero-sized marker that prevents structs
// that embed it from being compared with `==`.
package disalloweq

// DisallowEqual can be used to prevent structs from being compared
// with `==`.
type DisallowEqual [0]func()
