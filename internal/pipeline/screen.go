package pipeline

// Screen is one step of the split flow, named by its URL path.
type Screen string

const (
	ScreenHome         Screen = "/"
	ScreenScan         Screen = "/scan"
	ScreenManualEntry  Screen = "/manual-entry"
	ScreenEditReceipt  Screen = "/edit-receipt"
	ScreenAssignItems  Screen = "/assign-items"
	ScreenSplitSummary Screen = "/split-summary"
)

// Screens lists every screen in flow order.
var Screens = []Screen{
	ScreenHome,
	ScreenScan,
	ScreenManualEntry,
	ScreenEditReceipt,
	ScreenAssignItems,
	ScreenSplitSummary,
}

// Valid reports whether s is a known screen.
func (s Screen) Valid() bool {
	for _, known := range Screens {
		if s == known {
			return true
		}
	}
	return false
}

func (s Screen) String() string {
	return string(s)
}
