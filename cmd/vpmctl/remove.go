package main

import (
	"flag"

	"github.com/pkg/errors"
)

const removeShortHelp = `Remove a dependency from the project`
const removeLongHelp = `
usage: vpmctl remove [-n] <pkg>...

Removes one or more packages from the project's declared dependencies,
then removes every package left unreachable as a result. remove fails
if a named package is still required by something that isn't itself
being removed in the same invocation.
`

func (cmd *removeCommand) Name() string      { return "remove" }
func (cmd *removeCommand) Args() string      { return "<pkg>..." }
func (cmd *removeCommand) ShortHelp() string { return removeShortHelp }
func (cmd *removeCommand) LongHelp() string  { return removeLongHelp }
func (cmd *removeCommand) Hidden() bool      { return false }

func (cmd *removeCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.dryRun, "n", false, "dry run: print the plan without applying it")
}

type removeCommand struct {
	dryRun bool
}

func (cmd *removeCommand) Run(ctx *Ctx, args []string) error {
	if len(args) == 0 {
		return errors.New("remove requires at least one <pkg> argument")
	}

	p, err := ctx.LoadProject()
	if err != nil {
		return err
	}

	return resolveAndApply(ctx, p, nil, args, cmd.dryRun)
}
