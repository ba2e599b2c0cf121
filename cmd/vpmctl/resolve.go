package main

import (
	"flag"

	"github.com/pkg/errors"
	"github.com/vrc-community/vpmctl/catalog"
	"github.com/vrc-community/vpmctl/resolver"
)

const resolveShortHelp = `Bring Packages/ in sync with the project's manifest`
const resolveLongHelp = `
usage: vpmctl resolve

Resolves every package named in the manifest's dependencies and locked
state, at its already-recorded version where one is locked, and installs
the packages whose resolved version differs from the locked one (such as
declared dependencies that are not locked yet). It never picks a
different version for an already-locked package. It does not inspect
Packages/: a locked package whose folder is missing or incomplete on
disk is not reinstalled.
`

func (cmd *resolveCommand) Name() string      { return "resolve" }
func (cmd *resolveCommand) Args() string      { return "" }
func (cmd *resolveCommand) ShortHelp() string { return resolveShortHelp }
func (cmd *resolveCommand) LongHelp() string  { return resolveLongHelp }
func (cmd *resolveCommand) Hidden() bool      { return false }

func (cmd *resolveCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.dryRun, "n", false, "dry run: print the plan without applying it")
}

type resolveCommand struct {
	dryRun bool
}

func (cmd *resolveCommand) Run(ctx *Ctx, args []string) error {
	if len(args) > 0 {
		return errors.New("resolve takes no arguments")
	}

	p, err := ctx.LoadProject()
	if err != nil {
		return err
	}
	universe, err := ctx.Universe()
	if err != nil {
		return err
	}

	names := map[string]bool{}
	for _, n := range p.Manifest.Dependencies.Keys() {
		names[n] = true
	}
	for _, n := range p.Manifest.Locked.Keys() {
		names[n] = true
	}

	var requests []resolver.Request
	for name := range names {
		if locked, ok := p.Manifest.Locked.Get(name); ok {
			found, ok := findExactVersion(universe, name, locked.Version)
			if !ok {
				return errors.Errorf("locked package %s@%s is no longer present in any configured repository", name, locked.Version.String())
			}
			requests = append(requests, resolver.Request{Descriptor: found.Descriptor})
			continue
		}
		dep, _ := p.Manifest.Dependencies.Get(name)
		found, ok := universe.FindLatest(name, catalog.Selector{Range: &dep.Version, Unity: p.UnityVersion, AllowPrerelease: ctx.Prerelease})
		if !ok {
			return &resolver.DependencyNotFoundError{Name: name}
		}
		requests = append(requests, resolver.Request{Descriptor: found.Descriptor})
	}

	return resolveAndApply(ctx, p, requests, nil, cmd.dryRun)
}
