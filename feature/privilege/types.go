package privilege

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ObjectType identifies the kind of object a grant targets.
type ObjectType string

const (
	ObjectDatabase ObjectType = "database"
	ObjectSchema   ObjectType = "schema"
	ObjectTable    ObjectType = "table"
	ObjectView     ObjectType = "view"
	ObjectSequence ObjectType = "sequence"
	ObjectTypeDef  ObjectType = "type"
	ObjectFunction ObjectType = "function"
)

// knownObjectTypes is the validation set for requests.
var knownObjectTypes = map[ObjectType]struct{}{
	ObjectDatabase: {}, ObjectSchema: {}, ObjectTable: {}, ObjectView: {},
	ObjectSequence: {}, ObjectTypeDef: {}, ObjectFunction: {},
}

// State selects the direction of reconciliation.
type State string

const (
	StateGrant  State = "grant"
	StateRevoke State = "revoke"
)

// Request is one privilege reconciliation request: make the given
// roles hold (or not hold) the given privileges on one object.
type Request struct {
	State           State      `json:"state"`
	Privileges      []string   `json:"privileges"`
	ObjectType      ObjectType `json:"object_type"`
	ObjectName      string     `json:"object_name"`
	Schema          string     `json:"schema,omitempty"`
	Roles           []string   `json:"roles"`
	WithGrantOption bool       `json:"with_grant_option,omitempty"`
	Cascade         bool       `json:"cascade,omitempty"`
}

// schemaScoped reports whether the object lives inside a schema.
func (r Request) schemaScoped() bool {
	switch r.ObjectType {
	case ObjectDatabase, ObjectSchema:
		return false
	}
	return true
}

// ObjectRef renders the object reference used in GRANT/REVOKE and SHOW
// GRANTS statements, e.g. "TABLE public.orders" or "DATABASE acme".
// Views and tables share the TABLE keyword.
func (r Request) ObjectRef() string {
	switch r.ObjectType {
	case ObjectDatabase:
		return "DATABASE " + r.ObjectName
	case ObjectSchema:
		return "SCHEMA " + r.ObjectName
	case ObjectTable, ObjectView:
		return "TABLE " + r.qualifiedName()
	case ObjectSequence:
		return "SEQUENCE " + r.qualifiedName()
	case ObjectTypeDef:
		return "TYPE " + r.qualifiedName()
	case ObjectFunction:
		return "FUNCTION " + r.qualifiedName()
	}
	return string(r.ObjectType) + " " + r.ObjectName
}

func (r Request) qualifiedName() string {
	schema := r.Schema
	if schema == "" {
		schema = "public"
	}
	return schema + "." + r.ObjectName
}

// Grant is one privilege a role holds on the object.
type Grant struct {
	Privilege string `json:"privilege"`
	Grantable bool   `json:"grantable"`
}

// Snapshot maps role name to the grants it holds on the object.
type Snapshot map[string][]Grant

// add unions a grant into the snapshot; duplicate rows from the two
// read strategies never overwrite what is already recorded.
func (s Snapshot) add(role string, g Grant) {
	for i, have := range s[role] {
		if have.Privilege == g.Privilege {
			if g.Grantable {
				s[role][i].Grantable = true
			}
			return
		}
	}
	s[role] = append(s[role], g)
}

// privileges returns the role's privilege names, upper-cased.
func (s Snapshot) privileges(role string) []string {
	grants := s[role]
	out := make([]string, 0, len(grants))
	for _, g := range grants {
		out = append(out, strings.ToUpper(g.Privilege))
	}
	return out
}

// relationPrivileges is what ALL expands to on tables and views.
var relationPrivileges = []string{"SELECT", "INSERT", "UPDATE", "DELETE"}

// matchPolicy controls how a desired privilege set is compared against
// a role's current set for one object type.
type matchPolicy struct {
	// expandAll, when non-nil, is the concrete set ALL stands for.
	expandAll []string
	// subsetSufficient accepts the desired set being contained in the
	// current set; otherwise the normalized sets must match exactly.
	subsetSufficient bool
}

var matchPolicies = map[ObjectType]matchPolicy{
	ObjectTable:    {expandAll: relationPrivileges, subsetSufficient: true},
	ObjectView:     {expandAll: relationPrivileges, subsetSufficient: false},
	ObjectSequence: {expandAll: nil, subsetSufficient: true},
}

func policyFor(t ObjectType) matchPolicy {
	if p, ok := matchPolicies[t]; ok {
		return p
	}
	return matchPolicy{}
}

// basePrivilege strips a column qualifier: "UPDATE(col)" -> "UPDATE".
func basePrivilege(p string) string {
	if i := strings.IndexByte(p, '('); i >= 0 {
		return strings.TrimSpace(p[:i])
	}
	return strings.TrimSpace(p)
}

// columnQualified reports whether the privilege carries a column list.
func columnQualified(p string) bool {
	return strings.Contains(p, "(")
}

var columnListPattern = regexp.MustCompile(`(\w+)\(`)

// formatPrivilege normalizes a privilege for statement rendering: the
// keyword upper-cased, column lists spaced the way the cluster prints
// them ("update(col)" -> "UPDATE (col)").
func formatPrivilege(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexByte(p, '('); i >= 0 {
		p = strings.ToUpper(p[:i]) + p[i:]
	} else {
		p = strings.ToUpper(p)
	}
	return columnListPattern.ReplaceAllString(p, "$1 (")
}

// formatPrivilegeList renders a privilege list for a statement.
func formatPrivilegeList(privs []string) string {
	out := make([]string, len(privs))
	for i, p := range privs {
		out[i] = formatPrivilege(p)
	}
	return strings.Join(out, ", ")
}

// sortedRoles returns the snapshot's roles in a stable order.
func (s Snapshot) sortedRoles() []string {
	roles := make([]string, 0, len(s))
	for r := range s {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

// validate rejects malformed requests before any query runs.
func (r Request) validate() error {
	if _, ok := knownObjectTypes[r.ObjectType]; !ok {
		return fmt.Errorf("unknown object type %q", r.ObjectType)
	}
	if r.ObjectName == "" {
		return fmt.Errorf("object name is required")
	}
	if len(r.Roles) == 0 {
		return fmt.Errorf("at least one role is required")
	}
	if len(r.Privileges) == 0 {
		return fmt.Errorf("at least one privilege is required")
	}
	if r.State != StateGrant && r.State != StateRevoke {
		return fmt.Errorf("state must be grant or revoke, got %q", r.State)
	}
	return nil
}
