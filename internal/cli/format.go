package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MrSnakeDoc/netcompare/internal/catalog"
	"github.com/MrSnakeDoc/netcompare/internal/domain"
	"github.com/MrSnakeDoc/netcompare/internal/session"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// price column index, styled apart from the rest
const priceCol = 5

func checkFormat(f string) error {
	if f != formatTable && f != formatJSON {
		return fmt.Errorf("unknown format %q (want table or json)", f)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printView writes the saved search: a header with the address and the
// active selection, then the displayed offers.
func printView(w io.Writer, v session.View, cat *catalog.Catalog, format string, details bool) error {
	if format == formatJSON {
		return writeJSON(w, v)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Address.String()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d offers · %s", len(v.Offers), v.Total, selectionSummary(v.Selections, cat))))
	b.WriteString("\n")
	if v.Error != "" {
		b.WriteString(errorStyle.Render(v.Error))
		b.WriteString("\n")
	}
	if v.ShareURL != "" {
		b.WriteString("Share link: " + v.ShareURL + "\n")
	}

	switch {
	case len(v.Offers) > 0:
		b.WriteString(offerTable(v.Offers))
		b.WriteString("\n")
		if details {
			b.WriteString(detailList(v.Offers))
		}
	case v.Total > 0:
		b.WriteString(mutedStyle.Render("No offers match the current filters."))
		b.WriteString("\n")
	case v.Error == "":
		b.WriteString(mutedStyle.Render("No offers found for this address."))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func printShared(w io.Writer, id string, cards []session.Card, format string) error {
	if format == formatJSON {
		return writeJSON(w, cards)
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Shared offers " + id))
	b.WriteString("\n")
	if len(cards) == 0 {
		b.WriteString(mutedStyle.Render("This share is empty."))
		b.WriteString("\n")
	} else {
		b.WriteString(offerTable(cards))
		b.WriteString("\n")
		b.WriteString(detailList(cards))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func offerTable(cards []session.Card) string {
	rows := make([][]string, len(cards))
	for i, c := range cards {
		o := c.Offer
		rows[i] = []string{
			strconv.Itoa(i + 1),
			o.ProviderName,
			o.ProductName,
			orDash(o.ConnectionType),
			speed(o),
			c.Price,
			orDash(c.PriceAfter2Y),
			term(o),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers("#", "Provider", "Product", "Type", "Speed", "Price/mo", "After 2y", "Term").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == priceCol:
				return priceStyle
			default:
				return cellStyle
			}
		}).
		String()
}

func detailList(cards []session.Card) string {
	var b strings.Builder
	for i, c := range cards {
		if len(c.Details) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s\n", titleStyle.Render(fmt.Sprintf("%d. %s %s", i+1, c.Offer.ProviderName, c.Offer.ProductName)))
		for _, d := range c.Details {
			fmt.Fprintf(&b, "   • %s\n", d.Text)
		}
	}
	return b.String()
}

func selectionSummary(sel domain.Selections, cat *catalog.Catalog) string {
	parts := []string{
		"sort: " + cat.SortLabel(string(sel.SortBy)),
		"speed: " + cat.SpeedLabel(sel.MinSpeed),
		"data: " + cat.DataLabel(sel.MinDataLimit),
	}
	if len(sel.ConnectionTypes) > 0 {
		parts = append(parts, "type: "+strings.Join(sel.ConnectionTypes, ", "))
	}
	if len(sel.Providers) > 0 {
		parts = append(parts, "provider: "+strings.Join(sel.Providers, ", "))
	}
	if len(sel.ContractTerms) > 0 {
		parts = append(parts, "term: "+strings.Join(sel.ContractTerms, ", ")+" months")
	}
	return strings.Join(parts, " · ")
}

func speed(o domain.Offer) string {
	if o.DownloadSpeedMbps == nil {
		return "-"
	}
	return domain.FormatNumber(*o.DownloadSpeedMbps) + " Mbps"
}

func term(o domain.Offer) string {
	if t := o.ContractTerm(); t != "" {
		return t + " mo"
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
