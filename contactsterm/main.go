package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "contactsterm: %v\n", err)
		os.Exit(1)
	}
}

// run executes one command line. The store and log file are released even
// when the command fails, so pending audit entries reach disk.
func run(args []string, stdout io.Writer) (err error) {
	a := &app{}
	defer func() {
		if closeErr := a.teardown(); err == nil {
			err = closeErr
		}
	}()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)

	return root.Execute()
}
