//go:build wasm

package internal

// wasm runs a single thread, every caller is on the loop goroutine
func currentGoroutine() int64 {
	return 1
}
