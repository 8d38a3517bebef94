package privilege

import (
	"strings"

	"crdb-admin/core/reconcile"
)

// Decide compares the request against the grant snapshot and returns
// the decision. It performs no I/O; the caller supplies a snapshot read
// immediately beforehand.
func Decide(req Request, snap Snapshot) reconcile.Decision {
	if req.State == StateRevoke {
		return decideRevoke(req, snap)
	}
	return decideGrant(req, snap)
}

func decideGrant(req Request, snap Snapshot) reconcile.Decision {
	var d reconcile.Decision
	policy := policyFor(req.ObjectType)
	desired := expandPrivileges(req.Privileges, policy)

	need := false
	for _, role := range req.Roles {
		if !roleSatisfied(desired, snap[role], policy, req.WithGrantOption) {
			need = true
			break
		}
	}
	if !need {
		return d
	}

	stmt := "GRANT " + formatPrivilegeList(req.Privileges) +
		" ON " + req.ObjectRef() +
		" TO " + strings.Join(req.Roles, ", ")
	if req.WithGrantOption {
		stmt += " WITH GRANT OPTION"
	}
	d.Append(stmt)
	return d
}

func decideRevoke(req Request, snap Snapshot) reconcile.Decision {
	var d reconcile.Decision

	need := false
	for _, role := range req.Roles {
		if roleHoldsAny(req.Privileges, snap[role]) {
			need = true
			break
		}
	}
	if !need {
		return d
	}

	stmt := "REVOKE " + formatPrivilegeList(req.Privileges) +
		" ON " + req.ObjectRef() +
		" FROM " + strings.Join(req.Roles, ", ")
	if req.Cascade {
		stmt += " CASCADE"
	}
	d.Append(stmt)
	return d
}

// expandPrivileges upper-cases the requested privileges and expands ALL
// into the policy's concrete set, when the object type has one.
func expandPrivileges(privs []string, policy matchPolicy) []string {
	out := make([]string, 0, len(privs))
	for _, p := range privs {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "ALL" && policy.expandAll != nil {
			out = append(out, policy.expandAll...)
			continue
		}
		out = append(out, p)
	}
	return dedupe(out)
}

// roleSatisfied reports whether the role's current grants already cover
// the desired set under the object type's match policy, including the
// grant-option requirement when requested.
func roleSatisfied(desired []string, grants []Grant, policy matchPolicy, needGrantOption bool) bool {
	if len(grants) == 0 {
		return false
	}

	current := map[string]struct{}{}
	grantable := map[string]struct{}{}
	hasAll := false
	for _, g := range grants {
		base := strings.ToUpper(basePrivilege(g.Privilege))
		current[base] = struct{}{}
		if base == "ALL" {
			hasAll = true
			if policy.expandAll != nil {
				for _, p := range policy.expandAll {
					current[p] = struct{}{}
				}
			}
		}
		if g.Grantable {
			grantable[base] = struct{}{}
			if base == "ALL" && policy.expandAll != nil {
				for _, p := range policy.expandAll {
					grantable[p] = struct{}{}
				}
			}
		}
	}

	// A role holding ALL satisfies any requested privilege set.
	covered := hasAll
	if !covered {
		if policy.subsetSufficient {
			covered = containsAll(current, desired)
		} else {
			covered = setsEqual(current, desired)
		}
	}
	if !covered {
		return false
	}

	if needGrantOption {
		_, allGrantable := grantable["ALL"]
		for _, p := range desired {
			if _, ok := grantable[p]; !ok && !allGrantable {
				return false
			}
		}
	}
	return true
}

// roleHoldsAny reports whether the role currently holds any of the
// requested privileges. Revoking is a no-op exactly when it does not.
func roleHoldsAny(requested []string, grants []Grant) bool {
	if len(grants) == 0 {
		return false
	}

	current := map[string]struct{}{}
	for _, g := range grants {
		current[strings.ToUpper(basePrivilege(g.Privilege))] = struct{}{}
	}
	_, hasAll := current["ALL"]

	for _, p := range requested {
		base := strings.ToUpper(basePrivilege(p))
		if base == "ALL" {
			// Revoking ALL changes state as soon as anything is held.
			return true
		}
		if hasAll {
			return true
		}
		if _, ok := current[base]; ok {
			return true
		}
	}
	return false
}

func containsAll(set map[string]struct{}, wanted []string) bool {
	for _, w := range wanted {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}

func setsEqual(current map[string]struct{}, desired []string) bool {
	want := map[string]struct{}{}
	for _, d := range desired {
		want[d] = struct{}{}
	}
	if len(want) != len(current) {
		return false
	}
	return containsAll(current, desired)
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
