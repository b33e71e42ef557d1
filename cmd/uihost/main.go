// cmd/uihost/main.go
package main

import (
	"os"

	"github.com/vulntor/uihost/cmd/uihost/commands"
)

func main() {
	root := commands.NewCommand()
	if err := root.Execute(); err != nil {
		commands.ReportError(root, err)
		os.Exit(commands.ExitCode(err))
	}
}
