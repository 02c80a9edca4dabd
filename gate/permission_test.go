package gate_test

import (
	"testing"

	"github.com/diewo77/ai-talent-hub/gate"
)

func TestPermission_NewPermission(t *testing.T) {
	perm := gate.NewPermission("job", gate.ActionCreate)
	if perm != "job:create" {
		t.Errorf("expected 'job:create', got '%s'", perm)
	}
}

func TestPermission_Parse(t *testing.T) {
	res, act := gate.Permission("company:update").Parse()
	if res != "company" || act != gate.ActionUpdate {
		t.Errorf("unexpected parse result '%s' '%s'", res, act)
	}
	res, act = gate.Permission("invalid").Parse()
	if res != "" || act != "" {
		t.Errorf("expected empty strings, got '%s' and '%s'", res, act)
	}
}

func TestPermission_Matches(t *testing.T) {
	tests := []struct {
		grant     gate.Permission
		requested gate.Permission
		want      bool
	}{
		{"job:create", "job:create", true},
		{"job:create", "job:delete", false},
		{"job:create", "company:create", false},
		{"*:*", "member:invite", true},
		{"job:*", "job:update", true},
		{"job:*", "company:update", false},
		{"*:view", "company:view", true},
		{"*:view", "company:update", false},
		{"broken", "broken", true},
		{"broken", "job:view", false},
		{"job:*", "broken", false},
	}
	for _, tt := range tests {
		if got := tt.grant.Matches(tt.requested); got != tt.want {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.grant, tt.requested, got, tt.want)
		}
	}
}

func TestPermissionSet(t *testing.T) {
	set := gate.NewPermissionSet("job:*", "member:invite")
	if !set.HasPermission("job:create") {
		t.Error("job:* should grant job:create")
	}
	if set.HasPermission("member:delete") {
		t.Error("member:invite should not grant member:delete")
	}
	perms := set.Permissions()
	if len(perms) != 2 || perms[0] != "job:*" || perms[1] != "member:invite" {
		t.Errorf("unexpected sorted permissions %v", perms)
	}
}
