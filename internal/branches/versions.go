package branches

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/Masterminds/semver/v3"
)

const (
	versionBranchPatternConstant       = `^v?(\d+)\.(\d+|x)$`
	wildcardMinorConstant              = "x"
	numericIdentityTemplateConstant    = "%d.%d"
	wildcardIdentityTemplateConstant   = "%d.x"
	versionIdentityMajorGroupConstant  = 1
	versionIdentityMinorGroupConstant  = 2
	versionIdentityNumberBaseConstant  = 10
	versionIdentityNumberWidthConstant = 64
)

var versionBranchPattern = regexp.MustCompile(versionBranchPatternConstant)

// VersionIdentity is the (major, minor) pair carried by a version branch name such as 1.2, v1.2 or 1.x.
type VersionIdentity struct {
	Major    uint64
	Minor    uint64
	Wildcard bool
}

// ParseVersionIdentity reports the identity of a version branch name.
func ParseVersionIdentity(branchName string) (VersionIdentity, bool) {
	matches := versionBranchPattern.FindStringSubmatch(branchName)
	if matches == nil {
		return VersionIdentity{}, false
	}

	major, majorError := strconv.ParseUint(matches[versionIdentityMajorGroupConstant], versionIdentityNumberBaseConstant, versionIdentityNumberWidthConstant)
	if majorError != nil {
		return VersionIdentity{}, false
	}

	minorText := matches[versionIdentityMinorGroupConstant]
	if minorText == wildcardMinorConstant {
		return VersionIdentity{Major: major, Wildcard: true}, true
	}

	minor, minorError := strconv.ParseUint(minorText, versionIdentityNumberBaseConstant, versionIdentityNumberWidthConstant)
	if minorError != nil {
		return VersionIdentity{}, false
	}
	return VersionIdentity{Major: major, Minor: minor}, true
}

// SemanticVersion returns the identity as <major>.<minor>.0; a wildcard identity reports minor 0.
func (identity VersionIdentity) SemanticVersion() *semver.Version {
	return semver.New(identity.Major, identity.Minor, 0, "", "")
}

// Compare orders identities by major, then by minor with a wildcard above every numeric minor.
func (identity VersionIdentity) Compare(other VersionIdentity) int {
	if identity.Major != other.Major {
		if identity.Major < other.Major {
			return -1
		}
		return 1
	}
	if identity.Wildcard != other.Wildcard {
		if identity.Wildcard {
			return 1
		}
		return -1
	}
	if identity.Wildcard {
		return 0
	}
	return identity.SemanticVersion().Compare(other.SemanticVersion())
}

// Covers reports whether a release version belongs on a branch with this identity.
func (identity VersionIdentity) Covers(version *semver.Version) bool {
	if version == nil || version.Major() != identity.Major {
		return false
	}
	return identity.Wildcard || version.Minor() == identity.Minor
}

// String renders the identity without a v prefix.
func (identity VersionIdentity) String() string {
	if identity.Wildcard {
		return fmt.Sprintf(wildcardIdentityTemplateConstant, identity.Major)
	}
	return fmt.Sprintf(numericIdentityTemplateConstant, identity.Major, identity.Minor)
}

// SortVersionBranches keeps the names that look like version branches and orders them by version.
// Names sharing an identity, such as 1.0 and v1.0, are all kept in their input order.
func SortVersionBranches(branchNames []string) []string {
	type versionBranch struct {
		name     string
		identity VersionIdentity
	}

	versionBranches := make([]versionBranch, 0, len(branchNames))
	for _, branchName := range branchNames {
		identity, matched := ParseVersionIdentity(branchName)
		if !matched {
			continue
		}
		versionBranches = append(versionBranches, versionBranch{name: branchName, identity: identity})
	}

	sort.SliceStable(versionBranches, func(leftIndex int, rightIndex int) bool {
		return versionBranches[leftIndex].identity.Compare(versionBranches[rightIndex].identity) < 0
	})

	sortedNames := make([]string, 0, len(versionBranches))
	for _, candidate := range versionBranches {
		sortedNames = append(sortedNames, candidate.name)
	}
	return sortedNames
}
