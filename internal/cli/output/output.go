package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/propmarket/backend/pkg/client"
)

// JSON prints v as indented JSON.
func JSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// PropertyTable prints listings one per row.
func PropertyTable(w io.Writer, properties []client.Property) {
	if len(properties) == 0 {
		fmt.Fprintln(w, "No properties found.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tPURPOSE\tTITLE\tPRICE\tSTATUS\tCREATED")
	for _, p := range properties {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Purpose, Truncate(p.Title(), 40), FormatPrice(p.Price.String()), p.Status, RelativeTime(p.CreatedAt))
	}
	tw.Flush()
}

// PropertyDetail prints one listing with its derived features.
func PropertyDetail(w io.Writer, p client.Property) {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", p.Title())
	fmt.Fprintf(tw, "Purpose:\t%s\n", p.Purpose)
	fmt.Fprintf(tw, "Status:\t%s\n", p.Status)
	fmt.Fprintf(tw, "Price:\t%s\n", FormatPrice(p.Price.String()))
	fmt.Fprintf(tw, "Location:\t%s\n", p.Location)
	if p.Owner != nil {
		fmt.Fprintf(tw, "Owner:\t%s\n", p.Owner.Email)
	}
	if p.Mobile != nil && *p.Mobile != "" {
		fmt.Fprintf(tw, "Mobile:\t%s\n", *p.Mobile)
	}
	if p.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", p.Description)
	}
	if len(p.Features) > 0 {
		fmt.Fprintf(tw, "Features:\t%s\n", strings.Join(p.Features, ", "))
	}
	fmt.Fprintf(tw, "Images:\t%d\n", len(p.Images))
	if len(p.Interests) > 0 {
		fmt.Fprintf(tw, "Interests:\t%d\n", len(p.Interests))
	}
	fmt.Fprintf(tw, "Created:\t%s\n", p.CreatedAt.Format(time.RFC3339))
	tw.Flush()
}

func InterestTable(w io.Writer, interests []client.Interest) {
	if len(interests) == 0 {
		fmt.Fprintln(w, "No interests yet.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tPHONE\tMESSAGE\tRECEIVED")
	for _, i := range interests {
		message := "-"
		if i.Message != nil && *i.Message != "" {
			message = Truncate(*i.Message, 50)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", i.Name, i.Phone, message, RelativeTime(i.CreatedAt))
	}
	tw.Flush()
}

func HistoryTable(w io.Writer, events []client.ModerationEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No moderation history.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "FROM\tTO\tBY\tWHEN")
	for _, e := range events {
		by := e.ActorID
		if e.Actor != nil {
			by = e.Actor.Email
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.FromStatus, e.ToStatus, by, e.CreatedAt.Format(time.RFC3339))
	}
	tw.Flush()
}

func UserInfo(w io.Writer, u client.User) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	role := "user"
	if u.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(tw, "Role:\t%s\n", role)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	tw.Flush()
}

// FormatPrice groups the integer part of a decimal string in threes and
// drops a zero fraction, e.g. "4500000.00" -> "4,500,000".
func FormatPrice(s string) string {
	intPart, frac, _ := strings.Cut(s, ".")
	if strings.Trim(frac, "0") == "" {
		frac = ""
	}
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	if frac != "" {
		out += "." + frac
	}
	return out
}

// RelativeTime formats a timestamp relative to now (e.g. "2h ago", "3d ago").
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
