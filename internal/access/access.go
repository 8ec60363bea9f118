// Package access holds the static screen permission table for staff roles.
package access

import "github.com/invenpos/invenpos-backend/pkg/enums"

var screensByRole = map[enums.UserRole][]enums.Screen{
	enums.UserRoleAdmin: enums.AllScreens(),
	enums.UserRoleCashier: {
		enums.ScreenDashboard,
		enums.ScreenPOS,
	},
}

// Allowed reports whether role may open screen. Unknown roles and screens
// are denied.
func Allowed(role enums.UserRole, screen enums.Screen) bool {
	for _, s := range screensByRole[role] {
		if s == screen {
			return true
		}
	}
	return false
}

// Screens lists the screens role may open, in navigation order.
func Screens(role enums.UserRole) []enums.Screen {
	allowed := screensByRole[role]
	out := make([]enums.Screen, 0, len(allowed))
	for _, s := range enums.AllScreens() {
		if Allowed(role, s) {
			out = append(out, s)
		}
	}
	return out
}

// Landing is where a role lands after sign in, or when it is sent away
// from a screen it may not open.
func Landing(role enums.UserRole) (enums.Screen, bool) {
	if Allowed(role, enums.ScreenDashboard) {
		return enums.ScreenDashboard, true
	}
	return "", false
}
