package main

import (
	"flag"

	"github.com/pkg/errors"
	"github.com/vrc-community/vpmctl/resolver"
)

const addShortHelp = `Add a dependency to the project`
const addLongHelp = `
usage: vpmctl add [-n] <pkg[@range]>...

Adds one or more packages to the project's declared dependencies and
resolves the full dependency set in. A missing "@range" picks the newest
available version of the package (other packages' requirements on it
are not consulted for this pick) and records a caret range on that
version, such as ^3.5.0.

Examples:

  vpmctl add com.vrchat.avatars
  vpmctl add com.vrchat.avatars@^3.5.0 com.vrchat.worlds@^3.5.0
`

func (cmd *addCommand) Name() string      { return "add" }
func (cmd *addCommand) Args() string      { return "<pkg[@range]>..." }
func (cmd *addCommand) ShortHelp() string { return addShortHelp }
func (cmd *addCommand) LongHelp() string  { return addLongHelp }
func (cmd *addCommand) Hidden() bool      { return false }

func (cmd *addCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.dryRun, "n", false, "dry run: print the plan without applying it")
}

type addCommand struct {
	dryRun bool
}

func (cmd *addCommand) Run(ctx *Ctx, args []string) error {
	if len(args) == 0 {
		return errors.New("add requires at least one <pkg[@range]> argument")
	}

	p, err := ctx.LoadProject()
	if err != nil {
		return err
	}

	universe, err := ctx.Universe()
	if err != nil {
		return err
	}

	requests := make([]resolver.Request, 0, len(args))
	for _, spec := range args {
		req, err := resolveRequest(universe, p.UnityVersion, spec, ctx.Prerelease, true)
		if err != nil {
			return err
		}
		requests = append(requests, req)
	}

	return resolveAndApply(ctx, p, requests, nil, cmd.dryRun)
}
