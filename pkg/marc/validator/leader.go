package validator

import (
	"catalog-hq/marcval/pkg/marc"
	marcerrors "catalog-hq/marcval/pkg/marc/errors"
	"catalog-hq/marcval/pkg/marc/rules"
)

// CheckLeader validates the leader's length and byte positions. A leader
// of the wrong length is reported once, and the positions that still fall
// inside the data are checked anyway so a truncated leader surfaces every
// defect it can.
func CheckLeader(rule *rules.Rule, leader marc.Leader) []*marcerrors.Violation {
	var out []*marcerrors.Violation
	if len(leader) != marc.LeaderLength {
		out = append(out, marcerrors.NewLeaderLength(string(leader)))
	}
	if rule == nil {
		return out
	}

	data := string(leader)
	for _, p := range sortedPositions(rule.Values) {
		if p.end > len(data) {
			continue
		}
		slice := data[p.start:p.end]
		if !contains(rule.Values[p.key], slice) {
			out = append(out, marcerrors.NewInvalidLeader(p.key, slice, rule.Values[p.key]))
		}
	}
	return out
}
