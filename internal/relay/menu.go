package relay

// Menu button labels. The webhook routing matches inbound text against
// these, so the menu and the command dispatch stay in one place.
const (
	MenuGetLink       = "Get Link"
	MenuInbox         = "Inbox"
	MenuAbout         = "About"
	MenuPrivacy       = "Privacy"
	MenuDeleteAccount = "Delete Account"
)

// BuildMenu returns the main menu for a locale. Only English texts ship for
// now, but the menu is built per call rather than shared as mutable state.
func BuildMenu(locale string) MenuSpec {
	return MenuSpec{Rows: [][]string{
		{MenuAbout, MenuGetLink},
		{MenuInbox, MenuPrivacy},
		{MenuDeleteAccount},
	}}
}
