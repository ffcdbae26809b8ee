package engine

import (
	"slices"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"TaxBooster", RoleTaxBooster, true},
		{"tax-booster", RoleTaxBooster, true},
		{"tax_booster", RoleTaxBooster, true},
		{"SUSTAINER", RoleSustainer, true},
		{"commoner", RoleCommoner, true},
		{"Inspector", RoleInspector, true},
		{"king", RoleCommoner, false},
		{"", RoleCommoner, false},
	}
	for _, tc := range tests {
		got, ok := ParseRole(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseRole(%q) = %s, %v; want %s, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRoleStrings(t *testing.T) {
	for _, r := range Roles() {
		back, ok := ParseRole(r.String())
		if !ok || back != r {
			t.Errorf("ParseRole(%s.String()) = %s, %v", r, back, ok)
		}
	}
	if len(Roles()) != 6 {
		t.Errorf("Roles() = %d, want 6", len(Roles()))
	}
	if Role(200).String() != "Unknown" || Role(200).Valid() {
		t.Error("out-of-range role")
	}
}

func TestParseActionKind(t *testing.T) {
	tests := []struct {
		in   string
		want ActionKind
		ok   bool
	}{
		{"gather", ActionGather, true},
		{"block_coup", ActionBlockCoup, true},
		{"BlockCoup", ActionBlockCoup, true},
		{"cancel_bribe", ActionCancelBribe, true},
		{"cancel_tax", ActionCancelTax, true},
		{"BlockBribe", 0, false},
		{"steal", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseActionKind(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ParseActionKind(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestActionKindLabels(t *testing.T) {
	labels := map[ActionKind]string{
		ActionBlockTax:    "BlockedTax",
		ActionBlockArrest: "BlockedArrest",
		ActionCancelBribe: "BlockBribe",
		ActionBlockCoup:   "BlockCoup",
		ActionCoup:        "Coup",
	}
	for k, want := range labels {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
	if !ActionBlockCoup.Reactive() || ActionBlockTax.Reactive() {
		t.Error("Reactive misclassified")
	}
	if ActionGather.Targeted() || !ActionInspect.Targeted() {
		t.Error("Targeted misclassified")
	}
}

func TestActionSet(t *testing.T) {
	var s ActionSet
	s.add(ActionCoup)
	s.add(ActionGather)
	s.add(ActionCancelTax)
	if !s.Has(ActionCoup) || s.Has(ActionTax) {
		t.Errorf("Has mismatch: %b", s)
	}
	want := []ActionKind{ActionGather, ActionCoup, ActionCancelTax}
	if got := s.List(); !slices.Equal(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
}
