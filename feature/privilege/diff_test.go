package privilege

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tableRequest(state State, privs []string, roles ...string) Request {
	return Request{
		State:      state,
		Privileges: privs,
		ObjectType: ObjectTable,
		ObjectName: "orders",
		Schema:     "public",
		Roles:      roles,
	}
}

func TestGrantNoopWhenAlreadyHeld(t *testing.T) {
	req := tableRequest(StateGrant, []string{"SELECT", "INSERT"}, "analyst")
	snap := Snapshot{"analyst": {
		{Privilege: "SELECT"},
		{Privilege: "INSERT"},
	}}

	d := Decide(req, snap)
	assert.False(t, d.Changed)
	assert.Empty(t, d.Statements)
}

func TestGrantAllSatisfiesSubset(t *testing.T) {
	// A role holding ALL on a table satisfies any requested subset.
	req := tableRequest(StateGrant, []string{"SELECT", "UPDATE"}, "analyst")
	snap := Snapshot{"analyst": {{Privilege: "ALL"}}}

	d := Decide(req, snap)
	assert.False(t, d.Changed)
}

func TestGrantExpandedAllSatisfiesAllRequest(t *testing.T) {
	// Requesting ALL on a table is satisfied by the four relation
	// privileges held individually.
	req := tableRequest(StateGrant, []string{"ALL"}, "analyst")
	snap := Snapshot{"analyst": {
		{Privilege: "SELECT"}, {Privilege: "INSERT"},
		{Privilege: "UPDATE"}, {Privilege: "DELETE"},
	}}

	d := Decide(req, snap)
	assert.False(t, d.Changed)
}

func TestGrantSubsetMatchOnTable(t *testing.T) {
	// Extra privileges on a table do not force a change.
	req := tableRequest(StateGrant, []string{"SELECT"}, "analyst")
	snap := Snapshot{"analyst": {
		{Privilege: "SELECT"}, {Privilege: "DROP"},
	}}

	d := Decide(req, snap)
	assert.False(t, d.Changed)
}

func TestGrantMissingPrivilegeOnDatabase(t *testing.T) {
	req := Request{
		State:      StateGrant,
		Privileges: []string{"SELECT", "INSERT"},
		ObjectType: ObjectDatabase,
		ObjectName: "acme",
		Roles:      []string{"analyst"},
	}
	snap := Snapshot{"analyst": {{Privilege: "SELECT"}}}

	d := Decide(req, snap)
	assert.True(t, d.Changed)
	assert.Equal(t, []string{"GRANT SELECT, INSERT ON DATABASE acme TO analyst"}, d.Statements)
}

func TestGrantExactMatchOnDatabase(t *testing.T) {
	// Databases use exact set matching: extra privileges mean the sets
	// differ and a grant is issued to converge.
	req := Request{
		State:      StateGrant,
		Privileges: []string{"SELECT"},
		ObjectType: ObjectDatabase,
		ObjectName: "acme",
		Roles:      []string{"analyst"},
	}
	snap := Snapshot{"analyst": {
		{Privilege: "SELECT"}, {Privilege: "CREATE"},
	}}

	d := Decide(req, snap)
	assert.True(t, d.Changed)
}

func TestGrantUnknownRoleNeedsChange(t *testing.T) {
	req := tableRequest(StateGrant, []string{"SELECT"}, "analyst", "reporter")
	snap := Snapshot{"analyst": {{Privilege: "SELECT"}}}

	d := Decide(req, snap)
	assert.True(t, d.Changed)
	assert.Equal(t, []string{"GRANT SELECT ON TABLE public.orders TO analyst, reporter"}, d.Statements)
}

func TestGrantOptionNotSatisfiedByPlainGrant(t *testing.T) {
	req := tableRequest(StateGrant, []string{"SELECT"}, "analyst")
	req.WithGrantOption = true
	snap := Snapshot{"analyst": {{Privilege: "SELECT", Grantable: false}}}

	d := Decide(req, snap)
	assert.True(t, d.Changed)
	assert.Equal(t,
		[]string{"GRANT SELECT ON TABLE public.orders TO analyst WITH GRANT OPTION"},
		d.Statements)
}

func TestGrantOptionSatisfiedByGrantableAll(t *testing.T) {
	req := tableRequest(StateGrant, []string{"SELECT"}, "analyst")
	req.WithGrantOption = true
	snap := Snapshot{"analyst": {{Privilege: "ALL", Grantable: true}}}

	d := Decide(req, snap)
	assert.False(t, d.Changed)
}

func TestRevokeNoopWhenNothingHeld(t *testing.T) {
	req := tableRequest(StateRevoke, []string{"INSERT"}, "analyst")
	snap := Snapshot{"analyst": {{Privilege: "SELECT"}}}

	d := Decide(req, snap)
	assert.False(t, d.Changed)
}

func TestRevokeChangesWhenHeld(t *testing.T) {
	req := tableRequest(StateRevoke, []string{"SELECT", "INSERT"}, "analyst")
	req.Cascade = true
	snap := Snapshot{"analyst": {{Privilege: "SELECT"}}}

	d := Decide(req, snap)
	assert.True(t, d.Changed)
	assert.Equal(t,
		[]string{"REVOKE SELECT, INSERT ON TABLE public.orders FROM analyst CASCADE"},
		d.Statements)
}

func TestRevokeFromAllChanges(t *testing.T) {
	// Revoking a single privilege from a role holding ALL is a change.
	req := tableRequest(StateRevoke, []string{"INSERT"}, "analyst")
	snap := Snapshot{"analyst": {{Privilege: "ALL"}}}

	d := Decide(req, snap)
	assert.True(t, d.Changed)
}

func TestRevokeFromEmptySnapshotNoop(t *testing.T) {
	req := tableRequest(StateRevoke, []string{"ALL"}, "analyst")
	d := Decide(req, Snapshot{})
	assert.False(t, d.Changed)
}

func TestFormatPrivilegeColumnList(t *testing.T) {
	assert.Equal(t, "UPDATE (quantity)", formatPrivilege("UPDATE(quantity)"))
	assert.Equal(t, "UPDATE (quantity), SELECT",
		formatPrivilegeList([]string{"update(quantity)", " select "}))
}
