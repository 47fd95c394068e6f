// Command tn5250wf runs 5250 workflow definitions against IBM i hosts
// from the command line, one data row per recorded execution.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitError carries the process exit code a failure should produce,
// since cobra itself only distinguishes "no error" from "error".
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tn5250wf",
		Short:         "tn5250wf drives TN5250E workflows against IBM i hosts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func main() {
	os.Exit(run())
}

func run() int {
	err := newRootCmd().Execute()
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(os.Stderr, ee.err)
		}
		return ee.code
	}

	fmt.Fprintln(os.Stderr, err)
	return 64
}
