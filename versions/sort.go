package versions

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/foomo/docs-versionpanel/service/vo"
)

var releasePattern = regexp.MustCompile(`^v?([0-9.]+)([^0-9.]*)?$`)

// Tiers, highest first in the sorted list.
const (
	tierOther   = iota // names that fail the release pattern and start with a digit or punctuation
	tierRelease        // 2.1.0, v2.0.10, 2.1.0@ar/stable
	tierBranch         // names starting above '9', e.g. master
)

type sortKey struct {
	tier int
	// parts are the dotted release parts followed by the suffix, or the runes of the name.
	parts []string
	// numeric is the number of leading parts compared as integers.
	numeric int
}

func keyOf(version string) sortKey {
	if m := releasePattern.FindStringSubmatch(version); m != nil {
		parts := strings.Split(m[1], ".")
		return sortKey{
			tier:    tierRelease,
			parts:   append(parts, m[2]),
			numeric: len(parts),
		}
	}
	tier := tierOther
	if version != "" && version[0] > '9' {
		tier = tierBranch
	}
	return sortKey{tier: tier, parts: strings.Split(version, "")}
}

// compare orders keys ascending. Parts compare as strings, the shorter list first when one is
// a prefix of the other, so a plain release is lower than its suffixed variants. Release
// numbers compare as integers, which keeps 10.0 above 2.1.0.
func compare(a, b sortKey) int {
	if a.tier != b.tier {
		return cmp.Compare(a.tier, b.tier)
	}
	for i := 0; i < len(a.parts) && i < len(b.parts); i++ {
		if i < a.numeric && i < b.numeric {
			x, errX := strconv.Atoi(a.parts[i])
			y, errY := strconv.Atoi(b.parts[i])
			if errX == nil && errY == nil {
				if x != y {
					return cmp.Compare(x, y)
				}
				continue
			}
		}
		if c := strings.Compare(a.parts[i], b.parts[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.parts), len(b.parts))
}

// Sort orders list newest first in place: branch names, then releases, then names that
// neither look like a release nor a branch. Equal keys keep their relative order.
func Sort(list []vo.VersionDescriptor) {
	slices.SortStableFunc(list, func(a, b vo.VersionDescriptor) int {
		return compare(keyOf(b.Version), keyOf(a.Version))
	})
}
