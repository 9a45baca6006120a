// Package memory holds in-process implementations of the repository ports.
// Every read and write deep-copies, so callers never share state with the
// store. They back the memory storage backend and the use case tests.
package memory
