package enums

import "fmt"

// Screen names a top level area of the back office / register UI.
type Screen string

const (
	ScreenDashboard Screen = "dashboard"
	ScreenInventory Screen = "inventory"
	ScreenPOS       Screen = "pos"
	ScreenReports   Screen = "reports"
	ScreenSettings  Screen = "settings"
)

// Navigation order.
var validScreens = []Screen{
	ScreenDashboard,
	ScreenInventory,
	ScreenPOS,
	ScreenReports,
	ScreenSettings,
}

func (s Screen) String() string {
	return string(s)
}

func (s Screen) IsValid() bool {
	for _, candidate := range validScreens {
		if candidate == s {
			return true
		}
	}
	return false
}

// AllScreens returns every screen in navigation order.
func AllScreens() []Screen {
	out := make([]Screen, len(validScreens))
	copy(out, validScreens)
	return out
}

func ParseScreen(value string) (Screen, error) {
	for _, candidate := range validScreens {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid screen %q", value)
}
