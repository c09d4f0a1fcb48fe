// Command jsonvalue parses JSON documents and reformats, checks, or
// summarizes them.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"
)

// errFailed marks a run where some input was rejected; details were already
// printed.
var errFailed = errors.New("one or more inputs failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	g := &globals{stdin: stdin, stdout: stdout, stderr: stderr}
	exit := -1

	app := kingpin.New("jsonvalue", "Parse, check, and reformat JSON documents.")
	app.UsageWriter(stderr).ErrorWriter(stderr)
	app.Terminate(func(code int) { exit = code })
	app.HelpFlag.Short('h')
	addGlobalFlags(app, g)
	addFmtCommand(app, g)
	addCheckCommand(app, g)
	addStatsCommand(app, g)
	addTokensCommand(app, g)
	addDupsCommand(app, g)

	_, err := app.Parse(args)
	if exit >= 0 {
		return exit
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFailed):
		return 1
	default:
		fmt.Fprintf(stderr, "jsonvalue: %v\n", err)
		return 2
	}
}

// fileArgs lists the inputs; no arguments means stdin.
func fileArgs(files []string) []string {
	if len(files) == 0 {
		return []string{"-"}
	}
	return files
}
