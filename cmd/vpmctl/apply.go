package main

import (
	"github.com/vrc-community/vpmctl/catalog"
	"github.com/vrc-community/vpmctl/descriptor"
	"github.com/vrc-community/vpmctl/installer"
	"github.com/vrc-community/vpmctl/planner"
	"github.com/vrc-community/vpmctl/project"
	"github.com/vrc-community/vpmctl/resolver"
)

// resolveAndApply runs the full resolve -> plan -> render -> apply
// pipeline shared by add, remove, resolve, and update. When dryRun is
// true, the plan is rendered but never applied.
func resolveAndApply(ctx *Ctx, p *project.Project, requests []resolver.Request, explicitRemovals []string, dryRun bool) error {
	universe, err := ctx.Universe()
	if err != nil {
		return err
	}

	result, err := resolver.Resolve(p.Manifest, universe, p.UnityVersion, requests, ctx.Prerelease)
	if err != nil {
		return err
	}

	originHeaders := originHeadersFor(universe, result.Locked)

	plan, err := planner.BuildPlan(p, result.Locked, requests, explicitRemovals, originHeaders)
	if err != nil {
		return err
	}

	plan.Render(ctx.Err.Writer())
	ctx.Err.Printf("%s\n", plan.Summary())

	if dryRun {
		return nil
	}
	if len(plan.Installs) == 0 && len(plan.Removes) == 0 && len(plan.LegacyAssets) == 0 {
		return nil
	}

	cacheRoot, err := ctx.Settings.CacheRootOrDefault()
	if err != nil {
		return err
	}
	return installer.Apply(p, plan, installer.Options{
		CacheRoot:         cacheRoot,
		HashMismatchFatal: ctx.Settings.HashMismatchIsFatal,
		Logger:            ctx.Err,
	})
}

// originHeadersFor looks up each resolved descriptor's originating
// repository headers, keyed by package name, for the installer to
// merge over the descriptor's own headers when fetching a zip.
func originHeadersFor(universe *catalog.Universe, locked []*descriptor.Descriptor) map[string]map[string]string {
	out := map[string]map[string]string{}
	for _, d := range locked {
		for _, f := range universe.Find(d.Name) {
			if f.Descriptor.Version.Compare(d.Version) == 0 && len(f.Headers) > 0 {
				out[d.Name] = f.Headers
				break
			}
		}
	}
	return out
}
