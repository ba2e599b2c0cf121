// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command vpmctl manages VRChat package manager dependencies for a Unity
// project: resolving, installing, and removing packages against one or
// more configured VPM repositories.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/vrc-community/vpmctl/internal/config"
)

// Exit codes per the CLI contract: 0 success, 1 generic failure, 2
// usage error, 3 an unresolved conflict in the resulting package plan.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitConflict = 3
)

type command interface {
	Name() string           // "resolve"
	Args() string           // "[pkg...]"
	ShortHelp() string      // "Resolve the project's dependencies"
	LongHelp() string       // "Resolve the project's dependencies meeting the following..."
	Register(*flag.FlagSet) // command-specific flags
	Hidden() bool           // indicates whether the command should be hidden from help output
	Run(*Ctx, []string) error
}

func main() {
	c := &Config{
		Args:   os.Args,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(c.Run())
}

// Config specifies a full configuration for a vpmctl execution.
type Config struct {
	Args           []string  // Command-line arguments, starting with the program name.
	Stdout, Stderr io.Writer // Log output
}

// Run executes a configuration and returns an exit code.
func (c *Config) Run() (exitCode int) {
	commands := []command{
		&addCommand{},
		&removeCommand{},
		&resolveCommand{},
		&updateCommand{},
		&outdatedCommand{},
		&repoCommand{},
		&migrateCommand{},
		&versionCommand{},
	}

	examples := [][2]string{
		{"vpmctl resolve", "install the project's declared dependencies"},
		{"vpmctl add com.vrchat.avatars@^3.5.0", "add a dependency and resolve it in"},
		{"vpmctl update", "update every dependency to the latest version its range allows"},
		{"vpmctl outdated", "list locked packages with a newer version available"},
	}

	outLogger := log.New(c.Stdout, "", 0)
	errLogger := log.New(c.Stderr, "", 0)

	usage := func() {
		errLogger.Println("vpmctl manages VPM package dependencies for a Unity project")
		errLogger.Println()
		errLogger.Println("Usage: vpmctl <command>")
		errLogger.Println()
		errLogger.Println("Commands:")
		errLogger.Println()
		w := tabwriter.NewWriter(c.Stderr, 0, 4, 2, ' ', 0)
		for _, cmd := range commands {
			if !cmd.Hidden() {
				fmt.Fprintf(w, "\t%s\t%s\n", cmd.Name(), cmd.ShortHelp())
			}
		}
		w.Flush()
		errLogger.Println()
		errLogger.Println("Examples:")
		for _, example := range examples {
			fmt.Fprintf(w, "\t%s\t%s\n", example[0], example[1])
		}
		w.Flush()
		errLogger.Println()
		errLogger.Println(`Use "vpmctl help <command>" for more information about a command.`)
	}

	cmdName, printCommandHelp, exit := parseArgs(c.Args)
	if exit {
		usage()
		return exitUsage
	}

	for _, cmd := range commands {
		if cmd.Name() != cmdName {
			continue
		}

		fs := flag.NewFlagSet(cmdName, flag.ContinueOnError)
		fs.SetOutput(c.Stderr)
		verbose := fs.Bool("v", false, "enable verbose logging")
		projectDir := fs.String("project", "", "path to the Unity project (default: current directory)")
		offline := fs.Bool("offline", false, "never contact a remote repository; use only what's already cached")
		prerelease := fs.Bool("prerelease", false, "allow prerelease versions to satisfy dependency ranges")

		cmd.Register(fs)
		resetUsage(errLogger, fs, cmdName, cmd.Args(), cmd.LongHelp())

		if printCommandHelp {
			fs.Usage()
			return exitUsage
		}

		if err := fs.Parse(c.Args[2:]); err != nil {
			return exitUsage
		}

		settingsPath, err := config.DefaultPath()
		if err != nil {
			errLogger.Printf("%v\n", err)
			return exitFailure
		}
		settings, err := config.Load(settingsPath)
		if err != nil {
			errLogger.Printf("%v\n", err)
			return exitFailure
		}

		dir := *projectDir
		if dir == "" {
			dir = "."
		}
		ctx := newCtx(Loggers{Out: outLogger, Err: errLogger, Verbose: *verbose}, dir, settings)
		ctx.Offline = *offline
		ctx.Prerelease = *prerelease

		err = cmd.Run(ctx, fs.Args())
		switch {
		case err == nil:
			return exitOK
		case isConflictError(err):
			errLogger.Printf("%v\n", err)
			return exitConflict
		default:
			errLogger.Printf("%v\n", err)
			return exitFailure
		}
	}

	errLogger.Printf("vpmctl: %s: no such command\n", cmdName)
	usage()
	return exitUsage
}

func resetUsage(logger *log.Logger, fs *flag.FlagSet, name, args, longHelp string) {
	var (
		hasFlags   bool
		flagBlock  bytes.Buffer
		flagWriter = tabwriter.NewWriter(&flagBlock, 0, 4, 2, ' ', 0)
	)
	fs.VisitAll(func(f *flag.Flag) {
		hasFlags = true
		defValue := f.DefValue
		if defValue == "" {
			defValue = "<none>"
		}
		fmt.Fprintf(flagWriter, "\t-%s\t%s (default: %s)\n", f.Name, f.Usage, defValue)
	})
	flagWriter.Flush()
	fs.Usage = func() {
		logger.Printf("Usage: vpmctl %s %s\n", name, args)
		logger.Println()
		logger.Println(strings.TrimSpace(longHelp))
		logger.Println()
		if hasFlags {
			logger.Println("Flags:")
			logger.Println()
			logger.Println(flagBlock.String())
		}
	}
}

// parseArgs determines the name of the vpmctl command and whether the
// user asked for help to be printed.
func parseArgs(args []string) (cmdName string, printCmdUsage bool, exit bool) {
	isHelpArg := func() bool {
		return strings.Contains(strings.ToLower(args[1]), "help") || strings.ToLower(args[1]) == "-h"
	}

	switch len(args) {
	case 0, 1:
		exit = true
	case 2:
		if isHelpArg() {
			exit = true
		}
		cmdName = args[1]
	default:
		if isHelpArg() {
			cmdName = args[2]
			printCmdUsage = true
		} else {
			cmdName = args[1]
		}
	}
	return cmdName, printCmdUsage, exit
}
