package htfs

import "time"

// Dirent is the listing metadata of one remote entry, immutable after
// creation. Size is the free text the server rendered ("4.5K", "-"), not a
// byte count.
type Dirent struct {
	Name        string
	Date        time.Time
	Size        string
	Description string
	IsFolder    bool
}

// Listing pages render dates in a handful of formats depending on server
// configuration. Unparseable dates become the zero time.
var dateLayouts = []string{
	"2006-01-02 15:04",
	"02-Jan-2006 15:04",
	"2006-01-02 15:04:05",
}

func parseListingDate(raw string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
