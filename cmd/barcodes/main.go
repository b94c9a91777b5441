// Package main provides the command line interface for barcode sheets.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/barcodesheet/internal/core"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err the way the web UI shows it when the error has a
// known message, and as is otherwise.
func reportError(w io.Writer, err error) {
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, "Error:", core.FormatUserError(err))
		return
	}
	fmt.Fprintln(w, "Error:", err)
}
