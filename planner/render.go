package planner

import (
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/vrc-community/vpmctl/internal/feedback"
)

// Render writes a human-readable diff of the plan to w: one feedback
// line per install, one per removal (with its reason), and a legacy
// asset summary if any were collected.
func (p *PendingChanges) Render(w io.Writer) {
	logger := log.New(w, "", 0)

	installs := append([]Install(nil), p.Installs...)
	sort.Slice(installs, func(i, j int) bool { return installs[i].Descriptor.Name < installs[j].Descriptor.Name })
	for _, in := range installs {
		depType := feedback.DepTypeTransitive
		if in.ToDependencies {
			depType = feedback.DepTypeDirect
		}
		feedback.NewLockedPackageFeedback(in.Descriptor.Version.String(), depType, in.Descriptor.Name).LogFeedback(logger)
	}

	removes := append([]Remove(nil), p.Removes...)
	sort.Slice(removes, func(i, j int) bool { return removes[i].Name < removes[j].Name })
	for _, r := range removes {
		logger.Printf("  Removing %s (%s)", r.Name, r.Reason)
	}

	if len(p.LegacyAssets) > 0 {
		assets := append([]LegacyAsset(nil), p.LegacyAssets...)
		sort.Slice(assets, func(i, j int) bool { return assets[i].Path < assets[j].Path })
		kind := func(isDir bool) string {
			if isDir {
				return "folder"
			}
			return "file"
		}
		for _, a := range assets {
			logger.Printf("  Removing legacy %s %s", kind(a.IsDir), a.Path)
		}
	}
}

// Summary returns a one-line count of each change kind, useful for a
// terse confirmation prompt.
func (p *PendingChanges) Summary() string {
	return fmt.Sprintf("%d to install, %d to remove, %d legacy asset(s)", len(p.Installs), len(p.Removes), len(p.LegacyAssets))
}
