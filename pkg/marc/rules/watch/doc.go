// Package watch reloads a rule override file when it changes on disk.
//
// A Manager holds the current override context and swaps it atomically on
// reload, so in-flight validations keep the context they started with.
package watch
