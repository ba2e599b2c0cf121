package main

import (
	"flag"
	"sort"

	"github.com/vrc-community/vpmctl/catalog"
)

const outdatedShortHelp = `List locked packages with a newer version available`
const outdatedLongHelp = `
usage: vpmctl outdated

Lists every locked package for which some configured repository offers
a version newer than what's currently locked, regardless of whether
that newer version would satisfy the package's declared range. This is
informational only; it never modifies the project.
`

func (cmd *outdatedCommand) Name() string      { return "outdated" }
func (cmd *outdatedCommand) Args() string      { return "" }
func (cmd *outdatedCommand) ShortHelp() string { return outdatedShortHelp }
func (cmd *outdatedCommand) LongHelp() string  { return outdatedLongHelp }
func (cmd *outdatedCommand) Hidden() bool      { return false }

func (cmd *outdatedCommand) Register(fs *flag.FlagSet) {}

type outdatedCommand struct{}

func (cmd *outdatedCommand) Run(ctx *Ctx, args []string) error {
	p, err := ctx.LoadProject()
	if err != nil {
		return err
	}
	universe, err := ctx.Universe()
	if err != nil {
		return err
	}

	names := append([]string(nil), p.Manifest.Locked.Keys()...)
	sort.Strings(names)

	any := false
	for _, name := range names {
		locked, _ := p.Manifest.Locked.Get(name)
		sel := catalog.Selector{Unity: p.UnityVersion, AllowPrerelease: ctx.Prerelease}
		found, ok := universe.FindLatest(name, sel)
		if !ok {
			continue
		}
		if found.Descriptor.Version.Compare(locked.Version) > 0 {
			any = true
			ctx.Out.Printf("%s: %s -> %s", name, locked.Version.String(), found.Descriptor.Version.String())
		}
	}
	if !any {
		ctx.Out.Printf("everything is up to date")
	}
	return nil
}
