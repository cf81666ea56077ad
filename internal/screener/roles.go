package screener

import (
	"slices"
	"strings"

	"resumescreen/internal/catalog"
	"resumescreen/internal/types"
)

// RecommendRoles returns the union of roles mapped to each skill in the
// comma-joined skills string, sorted alphabetically and joined with ", ".
// Unknown skills contribute nothing; an empty union yields N/A.
func RecommendRoles(skills string, cat *catalog.Catalog) string {
	roles := SuitableRoles(skills, cat)
	if len(roles) == 0 {
		return types.NotAvailable
	}
	return strings.Join(roles, ", ")
}

// SuitableRoles is RecommendRoles before joining.
func SuitableRoles(skills string, cat *catalog.Catalog) []string {
	set := make(map[string]struct{})
	for _, skill := range SplitSkills(skills) {
		for _, role := range cat.Roles(skill) {
			set[role] = struct{}{}
		}
	}

	roles := make([]string, 0, len(set))
	for role := range set {
		roles = append(roles, role)
	}
	slices.Sort(roles)
	return roles
}
