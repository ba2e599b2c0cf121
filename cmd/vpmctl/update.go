package main

import (
	"flag"

	"github.com/pkg/errors"
	"github.com/vrc-community/vpmctl/catalog"
	"github.com/vrc-community/vpmctl/resolver"
)

const updateShortHelp = `Update dependencies to the latest version their declared range allows`
const updateLongHelp = `
usage: vpmctl update [pkg...]

Re-resolves the named dependencies (or every declared dependency, if
none are named) against the newest version satisfying their existing
range in the manifest, ignoring whatever is currently locked. This
never changes the declared range itself; it only moves the lock
forward. Use "vpmctl add" to change a dependency's range.
`

func (cmd *updateCommand) Name() string      { return "update" }
func (cmd *updateCommand) Args() string      { return "[pkg...]" }
func (cmd *updateCommand) ShortHelp() string { return updateShortHelp }
func (cmd *updateCommand) LongHelp() string  { return updateLongHelp }
func (cmd *updateCommand) Hidden() bool      { return false }

func (cmd *updateCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.dryRun, "n", false, "dry run: print the plan without applying it")
}

type updateCommand struct {
	dryRun bool
}

func (cmd *updateCommand) Run(ctx *Ctx, args []string) error {
	p, err := ctx.LoadProject()
	if err != nil {
		return err
	}
	universe, err := ctx.Universe()
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = p.Manifest.Dependencies.Keys()
	}

	requests := make([]resolver.Request, 0, len(names))
	for _, name := range names {
		dep, ok := p.Manifest.Dependencies.Get(name)
		if !ok {
			return errors.Errorf("%s is not a declared dependency; use \"vpmctl add\" to add it", name)
		}
		found, ok := universe.FindLatest(name, catalog.Selector{Range: &dep.Version, Unity: p.UnityVersion, AllowPrerelease: ctx.Prerelease})
		if !ok {
			return &resolver.DependencyNotFoundError{Name: name}
		}
		requests = append(requests, resolver.Request{Descriptor: found.Descriptor})
	}

	return resolveAndApply(ctx, p, requests, nil, cmd.dryRun)
}
