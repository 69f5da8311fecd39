// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

/*
This is the entrypoint for the tawhiri binary.
*/
package main

import (
	"fmt"
	"os"

	"github.com/KerlinMichel/tawhiri/cmd"
)

func main() {
	rootCmd := cmd.NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
