// codepad runs source files on a Judge0 instance from the command line.
//
// Usage:
//
//	codepad run hello.py
//	codepad run --stdin input.txt main.cpp solve.java
//	codepad languages
//	codepad template Python > hello.py
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(defaultProvider).Execute(); err != nil {
		if !errors.Is(err, errUnsuccessful) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
