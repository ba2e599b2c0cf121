package resolver

import "fmt"

// DependencyNotFoundError is returned when a transitive dependency has
// no descriptor in the universe satisfying its range under the
// effective prerelease policy.
type DependencyNotFoundError struct {
	Name string
}

func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("dependency not found: %s", e.Name)
}

// ConflictError is returned when the final resolution leaves at least
// one requirement unsatisfied by its resolved version. Conflicts maps
// the conflicting package's name to the name of the first requirement
// source found to violate it ("dependencies" for a root requirement).
type ConflictError struct {
	Conflicts map[string]string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflicts for %d package(s)", len(e.Conflicts))
}
