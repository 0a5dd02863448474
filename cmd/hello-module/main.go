// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"hello-module/internal/driver"
)

func main() {
	// 0 = errors only, nil = stderr
	commonlog.Configure(0, nil)

	if _, err := driver.Run(os.Stdout); err != nil {
		report(os.Stderr, err)
		os.Exit(1)
	}
}

// report writes a failed run's error, verification diagnostics included.
func report(w io.Writer, err error) {
	color.New(color.FgRed, color.Bold).Fprint(w, "error: ")
	fmt.Fprintln(w, err)
}
