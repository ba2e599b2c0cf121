package main

import (
	"github.com/pkg/errors"
	"github.com/vrc-community/vpmctl/planner"
	"github.com/vrc-community/vpmctl/resolver"
)

// isConflictError reports whether err (or its wrapped cause) is one of
// the plan/resolution conflict types, so Config.Run can map it to exit
// code 3 instead of the generic failure code.
func isConflictError(err error) bool {
	switch errors.Cause(err).(type) {
	case *planner.ConflictsWith:
		return true
	case *resolver.ConflictError:
		return true
	}
	return false
}
