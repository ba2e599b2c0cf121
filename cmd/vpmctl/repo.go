package main

import (
	"flag"

	"github.com/pkg/errors"
	"github.com/vrc-community/vpmctl/internal/config"
)

const repoShortHelp = `Manage configured VPM repositories`
const repoLongHelp = `
usage: vpmctl repo add <name> <url>
       vpmctl repo remove <name>
       vpmctl repo list

Repositories are stored in the user-global settings file, shared across
every project. "repo add" replaces an existing entry of the same name.
Per-repository HTTP headers aren't settable from the CLI; edit the
settings file's [[repo]] table directly if a repository needs one.
`

func (cmd *repoCommand) Name() string      { return "repo" }
func (cmd *repoCommand) Args() string      { return "add|remove|list ..." }
func (cmd *repoCommand) ShortHelp() string { return repoShortHelp }
func (cmd *repoCommand) LongHelp() string  { return repoLongHelp }
func (cmd *repoCommand) Hidden() bool      { return false }

func (cmd *repoCommand) Register(fs *flag.FlagSet) {}

type repoCommand struct{}

func (cmd *repoCommand) Run(ctx *Ctx, args []string) error {
	if len(args) == 0 {
		return errors.New("repo requires a subcommand: add, remove, or list")
	}

	settingsPath, err := config.DefaultPath()
	if err != nil {
		return err
	}

	switch args[0] {
	case "add":
		rest := args[1:]
		if len(rest) != 2 {
			return errors.New("usage: vpmctl repo add <name> <url>")
		}
		ctx.Settings.AddRepo(config.RepoSetting{Name: rest[0], URL: rest[1]})
		if err := ctx.Settings.Save(settingsPath); err != nil {
			return err
		}
		ctx.Out.Printf("added repository %s", rest[0])
		return nil

	case "remove":
		rest := args[1:]
		if len(rest) != 1 {
			return errors.New("usage: vpmctl repo remove <name>")
		}
		if !ctx.Settings.RemoveRepo(rest[0]) {
			return errors.Errorf("no such repository: %s", rest[0])
		}
		if err := ctx.Settings.Save(settingsPath); err != nil {
			return err
		}
		ctx.Out.Printf("removed repository %s", rest[0])
		return nil

	case "list":
		for _, r := range ctx.Settings.Repos {
			ctx.Out.Printf("%s\t%s", r.Name, r.URL)
		}
		return nil

	default:
		return errors.Errorf("unknown repo subcommand %q (want add, remove, or list)", args[0])
	}
}
