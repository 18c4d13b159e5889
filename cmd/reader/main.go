// Command reader pages through EPUB books in a GLFW window.
//
// Usage:
//
//	reader open book.epub            # read from the first chapter
//	reader open book.epub.xz -p 3    # compressed book, start at chapter 3
//	reader spine book.epub -o json   # list the reading order
//	reader config init               # write ~/.triptych/config.yaml
//
// Drag the page or use Left/Right to turn chapters, PageUp/PageDown to
// move through the columns of a long chapter and Esc to quit.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
