package domain

// MenuItemPrice is a read-time projection of the canonical price of a menu
// line, fetched fresh on every submission.
type MenuItemPrice struct {
	MenuItemID string
	VenueID    string
	Price      float64
	Available  bool
}
