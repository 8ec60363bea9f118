package access

import (
	"reflect"
	"testing"

	"github.com/invenpos/invenpos-backend/pkg/enums"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		role   enums.UserRole
		screen enums.Screen
		want   bool
	}{
		{enums.UserRoleAdmin, enums.ScreenInventory, true},
		{enums.UserRoleAdmin, enums.ScreenSettings, true},
		{enums.UserRoleAdmin, enums.ScreenPOS, true},
		{enums.UserRoleCashier, enums.ScreenPOS, true},
		{enums.UserRoleCashier, enums.ScreenDashboard, true},
		{enums.UserRoleCashier, enums.ScreenInventory, false},
		{enums.UserRoleCashier, enums.ScreenReports, false},
		{enums.UserRoleCashier, enums.ScreenSettings, false},
		{enums.UserRole("manager"), enums.ScreenPOS, false},
		{enums.UserRoleAdmin, enums.Screen("billing"), false},
	}
	for _, tc := range cases {
		if got := Allowed(tc.role, tc.screen); got != tc.want {
			t.Fatalf("Allowed(%s, %s) = %v, want %v", tc.role, tc.screen, got, tc.want)
		}
	}
}

func TestScreens(t *testing.T) {
	if got := Screens(enums.UserRoleAdmin); !reflect.DeepEqual(got, enums.AllScreens()) {
		t.Fatalf("admin screens = %v", got)
	}
	want := []enums.Screen{enums.ScreenDashboard, enums.ScreenPOS}
	if got := Screens(enums.UserRoleCashier); !reflect.DeepEqual(got, want) {
		t.Fatalf("cashier screens = %v, want %v", got, want)
	}
	if got := Screens(enums.UserRole("")); len(got) != 0 {
		t.Fatalf("expected no screens for unknown role, got %v", got)
	}
}

func TestLanding(t *testing.T) {
	if s, ok := Landing(enums.UserRoleCashier); !ok || s != enums.ScreenDashboard {
		t.Fatalf("unexpected landing %q %v", s, ok)
	}
	if _, ok := Landing(enums.UserRole("guest")); ok {
		t.Fatal("unknown role must not have a landing screen")
	}
}
