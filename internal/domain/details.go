package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DetailKind tells the renderer which icon/colour to use for a line.
type DetailKind string

const (
	DetailDiscount     DetailKind = "discount"
	DetailTV           DetailKind = "tv"
	DetailDataLimit    DetailKind = "data"
	DetailAge          DetailKind = "age"
	DetailInstallation DetailKind = "installation"
	DetailFee          DetailKind = "fee"
	DetailBenefit      DetailKind = "benefit"
)

// Detail is one line in the "Key Details & Benefits" block of an offer.
type Detail struct {
	Kind DetailKind `json:"kind"`
	Text string     `json:"text"`
}

// Label returns the "Something:" prefix of the text (if any) and the rest,
// so renderers can emphasise the label.
func (d Detail) Label() (label, rest string) {
	i := strings.IndexByte(d.Text, ':')
	if i <= 0 {
		return "", d.Text
	}
	return d.Text[:i+1], d.Text[i+1:]
}

var (
	reMaxTotal    = regexp.MustCompile(`max total €([\d.]+)`)
	rePercMonths  = regexp.MustCompile(`(\d+)% monthly discount for (\d+) months`)
	reMinOrder    = regexp.MustCompile(`min\. order €([\d.]+)`)
	staticCovered = []string{
		"tv package:", "data limit:", "age restriction:",
		"installation service included", "installation fee:",
		"max total €", "min. order €", "throttled after",
	}
)

// FormatPrice renders a euro amount with two decimals, or N/A.
func FormatPrice(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("€%.2f", *v)
}

// FormatNumber prints a float without trailing zeros (300, 12.5).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Details derives the human readable detail lines for an offer card.
func Details(o Offer) []Detail {
	var out []Detail
	benefits := o.Benefits
	lowerBenefits := strings.ToLower(benefits)

	if o.Discount != nil && *o.Discount != 0 && o.DiscountType != "" {
		out = append(out, Detail{Kind: DetailDiscount, Text: discountText(o)})
	}

	if tv := strings.TrimSpace(o.TV); tv != "" && strings.ToLower(tv) != "none" {
		out = append(out, Detail{Kind: DetailTV, Text: "TV Package: " + o.TV})
	}

	if o.DataLimitGb != nil {
		gb := FormatNumber(*o.DataLimitGb)
		text := "Data Limit: " + gb + " GB/month"
		if strings.Contains(lowerBenefits, "throttled after "+gb+"gb") {
			text += " (speed throttled afterwards)"
		}
		out = append(out, Detail{Kind: DetailDataLimit, Text: text})
	}

	if o.AgeRestrictionMax != nil {
		maxAge := *o.AgeRestrictionMax
		out = append(out, Detail{
			Kind: DetailAge,
			Text: fmt.Sprintf("Age Restriction: Up to %d years (under %d)", maxAge-1, maxAge),
		})
	}

	if o.InstallationService != nil {
		if *o.InstallationService {
			out = append(out, Detail{Kind: DetailInstallation, Text: "Installation service included"})
		} else if o.OneTimeCostEur != nil && *o.OneTimeCostEur > 0 && strings.Contains(lowerBenefits, "installation fee:") {
			out = append(out, Detail{Kind: DetailFee, Text: "Installation Fee: " + FormatPrice(o.OneTimeCostEur)})
		}
	}

	if benefits != "" && lowerBenefits != "n/a" {
		covered := append([]string(nil), staticCovered...)
		if o.DiscountType != "" {
			k := strings.ToLower(o.DiscountType)
			k = strings.Replace(k, " (monthly)", "", 1)
			k = strings.Replace(k, " voucher", "", 1)
			if k != "" {
				covered = append(covered, k)
			}
		}
		for _, part := range strings.Split(benefits, ",") {
			part = strings.TrimSpace(part)
			if part == "" || containsAny(strings.ToLower(part), covered) {
				continue
			}
			out = append(out, Detail{Kind: DetailBenefit, Text: part})
		}
	}

	return out
}

func discountText(o Offer) string {
	text := o.DiscountType + ": " + FormatPrice(o.Discount)
	lowerType := strings.ToLower(o.DiscountType)

	switch {
	case strings.Contains(lowerType, "percentage") && strings.Contains(o.Benefits, "max total"):
		percInfo := ""
		if m := rePercMonths.FindStringSubmatch(o.Benefits); m != nil {
			percInfo = fmt.Sprintf(" (%s%% for %s mths)", m[1], m[2])
		}
		if m := reMaxTotal.FindStringSubmatch(o.Benefits); m != nil {
			if v, err := strconv.ParseFloat(strings.TrimRight(m[1], "."), 64); err == nil {
				text = strings.Replace(o.DiscountType, " (Monthly)", "", 1) + percInfo + ", max total: " + FormatPrice(&v)
			}
		}
	case strings.Contains(lowerType, "one-time") && strings.Contains(o.Benefits, "min. order"):
		if m := reMinOrder.FindStringSubmatch(o.Benefits); m != nil {
			if v, err := strconv.ParseFloat(strings.TrimRight(m[1], "."), 64); err == nil {
				text += " (min. order value: " + FormatPrice(&v) + ")"
			}
		}
	}
	return text
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}
