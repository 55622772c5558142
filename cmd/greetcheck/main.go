// Command greetcheck is the deployment-gate verification harness CLI.
package main

import (
	"fmt"
	"os"

	"greetcheck/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		if err.Error() != "" {
			fmt.Fprintln(os.Stderr, "Error:", err.Error())
		}
		os.Exit(cli.GetExitCode(err))
	}
}
