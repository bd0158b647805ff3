package domain

import "testing"

func TestRole_Valid(t *testing.T) {
	for _, r := range AllRoles() {
		if !r.Valid() {
			t.Errorf("expected %q to be valid", r)
		}
	}
	for _, r := range []Role{"", "ADMIN", "root", "moderator"} {
		if r.Valid() {
			t.Errorf("expected %q to be invalid", r)
		}
	}
}

func TestNewUserStats_SumsAreConsistent(t *testing.T) {
	stats := NewUserStats([]RoleStatusCount{
		{Role: RoleAdmin, IsActive: true, Count: 2},
		{Role: RoleEditor, IsActive: true, Count: 3},
		{Role: RoleEditor, IsActive: false, Count: 1},
		{Role: RoleUser, IsActive: false, Count: 4},
		{Role: RoleUser, IsActive: true, Count: 10},
	})

	if stats.Total != 20 {
		t.Fatalf("expected total 20, got %d", stats.Total)
	}
	if stats.Active+stats.Inactive != stats.Total {
		t.Errorf("active %d + inactive %d != total %d", stats.Active, stats.Inactive, stats.Total)
	}
	var sum int64
	for _, n := range stats.ByRole {
		sum += n
	}
	if sum != stats.Total {
		t.Errorf("per-role sum %d != total %d", sum, stats.Total)
	}
	if stats.ByRole[RoleEditor] != 4 {
		t.Errorf("expected 4 editors, got %d", stats.ByRole[RoleEditor])
	}
}

func TestNewUserStats_Empty(t *testing.T) {
	stats := NewUserStats(nil)
	if stats.Total != 0 || stats.Active != 0 || stats.Inactive != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if len(stats.ByRole) != len(AllRoles()) {
		t.Fatalf("expected every role present, got %v", stats.ByRole)
	}
}
