package enums

import "testing"

func TestParseStaffRole(t *testing.T) {
	role, err := ParseStaffRole("admin")
	if err != nil || role != StaffRoleAdmin {
		t.Fatalf("expected admin role, got %q err=%v", role, err)
	}
	if _, err := ParseStaffRole("manager"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
	if StaffRoleOwner.Rank() >= StaffRoleAdmin.Rank() || StaffRoleAdmin.Rank() >= StaffRoleStaff.Rank() {
		t.Fatalf("roles should rank owner < admin < staff")
	}
}

func TestEventCategoryLabel(t *testing.T) {
	cases := map[EventCategory]string{
		EventCategoryTrade:      "Trade",
		EventCategoryTournament: "Tournament",
		EventCategoryCardShow:   "Card Show",
		EventCategory("raffle"): "",
	}
	for category, want := range cases {
		if got := category.Label(); got != want {
			t.Fatalf("category %q expected label %q, got %q", category, want, got)
		}
	}
}

func TestSubscriptionStatusForTier(t *testing.T) {
	if SubscriptionStatusForTier(0) != SubscriptionStatusFree {
		t.Fatalf("tier 0 should be free")
	}
	for _, tier := range []int{1, 2, 3} {
		if SubscriptionStatusForTier(tier) != SubscriptionStatusActive {
			t.Fatalf("tier %d should be active", tier)
		}
	}
}

func TestParseApplicationFilterDefaultsToPending(t *testing.T) {
	filter, err := ParseApplicationFilter("")
	if err != nil || filter != ApplicationFilterPending {
		t.Fatalf("expected pending default, got %q err=%v", filter, err)
	}
	if _, err := ParseApplicationFilter("archived"); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}

func TestTradeStatusValidity(t *testing.T) {
	if !TradeStatusConfirmed.IsValid() || !TradeStatusCancelled.IsValid() {
		t.Fatalf("known statuses must be valid")
	}
	if TradeStatus("pending").IsValid() {
		t.Fatalf("pending is not a schedule status")
	}
}
