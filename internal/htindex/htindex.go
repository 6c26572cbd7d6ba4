// Package htindex reads Apache-style "Index of /" pages into listing rows.
// The convention it understands is a table with three preamble rows (column
// headers, a rule, the parent-directory link) followed by one row per entry
// with [icon][name+link][date][size][description] columns.
package htindex

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Preamble rows of a fancy index: headers, <hr>, parent directory.
const headerRows = 3

// Entry rows carry an icon like <img src="/icons/folder.gif">. Rows whose
// icon does not match are decoration (trailing rules, address footer).
var iconPattern = regexp.MustCompile(`icons/([^/.]+)\.gif`)

const folderToken = "folder"

// Row is one parsed entry of a listing page. All cells are raw text as the
// server rendered them; Size in particular is human text ("4.5K", "-"), not
// a byte count.
type Row struct {
	Icon        string
	Name        string
	Href        string
	Date        string
	Size        string
	Description string
}

// IsFolder reports whether the row's icon classifies it as a directory.
// Every non-folder token counts as a file.
func (r Row) IsFolder() bool {
	return r.Icon == folderToken
}

// Parse extracts the entry rows from a listing page.
func Parse(r io.Reader) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var rows []Row
	doc.Find("table tr").Each(func(i int, tr *goquery.Selection) {
		if i < headerRows {
			return
		}

		cells := tr.Find("td")
		src, _ := cells.Eq(0).Find("img").Attr("src")
		m := iconPattern.FindStringSubmatch(src)
		if m == nil {
			return
		}

		link := cells.Eq(1).Find("a")
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		rows = append(rows, Row{
			Icon:        m[1],
			Name:        cellText(link),
			Href:        href,
			Date:        cellText(cells.Eq(2)),
			Size:        cellText(cells.Eq(3)),
			Description: cellText(cells.Eq(4)),
		})
	})

	return rows, nil
}

// cellText trims the padding apache puts around cell text, including
// non-breaking spaces. Out-of-range selections yield "".
func cellText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
