package common

import "testing"

func TestToPortalUserId(t *testing.T) {
	cases := []struct {
		actor Actor
		want  string
	}{
		{Actor{Id: 42, Role: RoleCrew}, "cr__42"},
		{Actor{Id: 7, Role: RoleOffice}, "of__7"},
	}
	for _, c := range cases {
		got, err := c.actor.ToPortalUserId()
		if err != nil {
			t.Fatalf("ToPortalUserId(%+v): %v", c.actor, err)
		}
		if got != c.want {
			t.Errorf("ToPortalUserId(%+v) = %q, want %q", c.actor, got, c.want)
		}
	}

	bad := Actor{Id: 1, Role: "vendor"}
	if _, err := bad.ToPortalUserId(); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestFromPortalUserId(t *testing.T) {
	var a Actor
	if err := a.FromPortalUserId("cr__42"); err != nil {
		t.Fatalf("FromPortalUserId: %v", err)
	}
	if a.Role != RoleCrew || a.Id != 42 {
		t.Errorf("got %+v, want crew/42", a)
	}

	if err := a.FromPortalUserId("of__7"); err != nil {
		t.Fatalf("FromPortalUserId: %v", err)
	}
	if a.Role != RoleOffice || a.Id != 7 {
		t.Errorf("got %+v, want office/7", a)
	}

	for _, bad := range []string{"", "cr__", "xx__5", "cr__abc"} {
		if err := a.FromPortalUserId(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
