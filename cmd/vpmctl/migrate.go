package main

import (
	"flag"

	"github.com/pkg/errors"
	"github.com/vrc-community/vpmctl/project"
)

const migrateShortHelp = `Rewrite legacy ProjectSettings fields for a VPM-managed project`
const migrateLongHelp = `
usage: vpmctl migrate [--product-guid=value] [--settings-version=value]

Rewrites the recognized scalar lines of
ProjectSettings/ProjectSettings.asset in place. Only the fields named by
a flag are touched; everything else in the file is left as-is. This is
a one-time step for projects converted from a legacy, non-VPM layout.
`

func (cmd *migrateCommand) Name() string      { return "migrate" }
func (cmd *migrateCommand) Args() string      { return "[--product-guid=value] [--settings-version=value]" }
func (cmd *migrateCommand) ShortHelp() string { return migrateShortHelp }
func (cmd *migrateCommand) LongHelp() string  { return migrateLongHelp }
func (cmd *migrateCommand) Hidden() bool      { return false }

func (cmd *migrateCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.productGUID, "product-guid", "", "new value for the productGUID: line")
	fs.StringVar(&cmd.settingsVersion, "settings-version", "", "new value for the vrchatSettingsFileVersion: line")
}

type migrateCommand struct {
	productGUID     string
	settingsVersion string
}

func (cmd *migrateCommand) Run(ctx *Ctx, args []string) error {
	if len(args) > 0 {
		return errors.New("migrate takes no positional arguments")
	}
	if cmd.productGUID == "" && cmd.settingsVersion == "" {
		return errors.New("migrate requires at least one of --product-guid or --settings-version")
	}

	p, err := ctx.LoadProject()
	if err != nil {
		return err
	}

	replacements := map[string]string{}
	if cmd.productGUID != "" {
		replacements["productGUID"] = cmd.productGUID
	}
	if cmd.settingsVersion != "" {
		replacements["vrchatSettingsFileVersion"] = cmd.settingsVersion
	}

	if err := project.MigrateSettings(p.Dir, replacements); err != nil {
		return err
	}
	ctx.Out.Printf("migrated ProjectSettings/ProjectSettings.asset")
	return nil
}
