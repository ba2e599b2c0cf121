// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feedback

import (
	"fmt"
	"log"
)

const (
	// DepTypeDirect marks a package the project depends on directly.
	DepTypeDirect = "direct dep"

	// DepTypeTransitive marks a package pulled in only because some
	// other package requires it.
	DepTypeTransitive = "transitive dep"
)

// ConstraintFeedback holds one line of resolve feedback: the range or
// version chosen for a package, and whether it's a direct or
// transitive dependency.
type ConstraintFeedback struct {
	Constraint     string
	LockedVersion  string
	DependencyType string
	PackageName    string
}

// NewConstraintFeedback builds a feedback entry for a root-level
// dependency constraint.
func NewConstraintFeedback(rangeStr, depType, packageName string) *ConstraintFeedback {
	return &ConstraintFeedback{Constraint: rangeStr, DependencyType: depType, PackageName: packageName}
}

// NewLockedPackageFeedback builds a feedback entry for a package's
// resolved, locked version.
func NewLockedPackageFeedback(version, depType, packageName string) *ConstraintFeedback {
	return &ConstraintFeedback{LockedVersion: version, DependencyType: depType, PackageName: packageName}
}

// LogFeedback logs feedback on changes made to the manifest or lock.
func (cf ConstraintFeedback) LogFeedback(logger *log.Logger) {
	if cf.Constraint != "" {
		logger.Printf("  %v", GetUsingFeedback(cf.Constraint, cf.DependencyType, cf.PackageName))
	}
	if cf.LockedVersion != "" {
		logger.Printf("  %v", GetLockingFeedback(cf.LockedVersion, cf.DependencyType, cf.PackageName))
	}
}

// GetUsingFeedback returns a dependency "using" feedback message. For
// example:
//
//	Using ^1.0.0 as constraint for direct dep com.vrchat.base
func GetUsingFeedback(rangeStr, depType, packageName string) string {
	return fmt.Sprintf("Using %s as constraint for %s %s", rangeStr, depType, packageName)
}

// GetLockingFeedback returns a dependency "locking" feedback message.
// For example:
//
//	Locking in 1.1.4 for direct dep com.vrchat.base
//	Locking in 3.4.0 for transitive dep com.vrchat.avatars
func GetLockingFeedback(version, depType, packageName string) string {
	return fmt.Sprintf("Locking in %s for %s %s", version, depType, packageName)
}
