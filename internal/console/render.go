package console

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"hostel-portal/internal/listing"
	"hostel-portal/internal/pages"
	"hostel-portal/internal/pages/dashboard"

	"github.com/olekukonko/tablewriter"
)

func renderTable(w io.Writer, t pages.Table) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(t.Columns)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.AppendBulk(t.Rows)
	tw.Render()
}

func renderFields(w io.Writer, title string, fields []pages.Field) {
	if title != "" {
		fmt.Fprintf(w, "%s\n", title)
	}
	tw := tablewriter.NewWriter(w)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColumnSeparator(":")
	tw.SetBorder(false)
	for _, f := range fields {
		tw.Append([]string{f.Label, f.Value})
	}
	tw.Render()
}

// renderView prints the header, query line, stats panel, rows and the
// pagination bar of a view.
func renderView(w io.Writer, v pages.View) {
	s := v.Summary()
	fmt.Fprintf(w, "\n== %s ==\n", v.Name())

	if s.ShowControls {
		fmt.Fprintln(w, queryLine(s))
	}
	if s.FiltersExpanded {
		renderFacets(w, v.Facets(), s.Query.Filters)
	}
	if s.ShowStats {
		renderFields(w, "Statistics", v.StatsPanel())
	}

	switch {
	case s.Loading && s.ItemCount == 0:
		fmt.Fprintln(w, "Loading...")
	case s.ItemCount == 0:
		fmt.Fprintf(w, "No %s found\n", v.Name())
	default:
		renderTable(w, v.Table())
	}

	if s.Pagination.ShowChrome() {
		fmt.Fprintln(w, paginationBar(s.Pagination, s.ItemCount))
	}
}

func queryLine(s pages.Summary) string {
	parts := []string{fmt.Sprintf("search: %q", s.Query.SearchTerm)}
	keys := make([]string, 0, len(s.Query.Filters))
	for k, v := range s.Query.Filters {
		if listing.IsActiveValue(v) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, s.Query.Filters[k]))
	}
	line := strings.Join(parts, "  ")
	if s.FiltersActive {
		line += "  (filters active, 'clear' to reset)"
	}
	return line
}

func renderFacets(w io.Writer, facets []listing.Facet, current map[string]string) {
	for _, f := range facets {
		val := current[f.Key]
		if val == "" {
			val = listing.AllValue
		}
		choices := "free text"
		if len(f.Values) > 0 {
			choices = strings.Join(f.Values, " | ")
		}
		fmt.Fprintf(w, "  %-10s %-12s [%s]\n", f.Key, val, choices)
	}
}

// paginationBar renders "« prev  1 [2] 3  next »  11-20 of 48".
func paginationBar(p listing.Pagination, onPage int) string {
	var b strings.Builder
	if p.CanPrev() {
		b.WriteString("« prev  ")
	}
	for i, n := range p.Window() {
		if i > 0 {
			b.WriteString(" ")
		}
		if n == p.CurrentPage {
			fmt.Fprintf(&b, "[%d]", n)
		} else {
			fmt.Fprintf(&b, "%d", n)
		}
	}
	if p.CanNext() {
		b.WriteString("  next »")
	}
	first, last := p.Range(onPage)
	fmt.Fprintf(&b, "   %d-%d of %d", first, last, p.TotalItems)
	return b.String()
}

func renderDashboard(w io.Writer, panels []dashboard.Panel) {
	fmt.Fprintln(w, "\n== dashboard ==")
	for _, p := range panels {
		title := p.Title
		if p.Failed {
			title += " (unavailable)"
		}
		renderFields(w, title, p.Fields)
	}
}
