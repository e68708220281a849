package layouts

// PageData is passed to layout.html to configure the page shell.
type PageData struct {
	Title     string
	ShopName  string
	Currency  string
	ActiveNav string // e.g. "dashboard", "stock", "sales", "ledger"

	// LowThreshold highlights quantities below it.
	LowThreshold int
	Data         any
}
