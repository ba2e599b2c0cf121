package main

import "flag"

const versionShortHelp = `Display version`
const versionLongHelp = `
Display version of this application.
`

const Version = "0.1.0"

func (cmd *versionCommand) Name() string      { return "version" }
func (cmd *versionCommand) Args() string      { return "" }
func (cmd *versionCommand) ShortHelp() string { return versionShortHelp }
func (cmd *versionCommand) LongHelp() string  { return versionLongHelp }
func (cmd *versionCommand) Hidden() bool      { return false }

func (cmd *versionCommand) Register(fs *flag.FlagSet) {}

type versionCommand struct{}

func (cmd *versionCommand) Run(ctx *Ctx, args []string) error {
	ctx.Out.Println(Version)
	return nil
}
