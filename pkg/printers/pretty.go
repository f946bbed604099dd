package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/journal/pkg/api"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/weather"
)

type PrettyPrint struct {
	ShowID bool
	// Width wraps long text; 0 means 80.
	Width int
	Out   io.Writer
}

const idWidth = len("00000000-0000-0000-0000-000000000000  ")

var spacing = strings.Repeat(" ", idWidth)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return 80
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// Entries prints one line per entry: mood, date, title and a preview.
func (pp *PrettyPrint) Entries(entries ...entry.Entry) {
	w := pp.out()
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Fprint(w, spacing)
		}
		_, _ = f.Fprint(w, " none\n\n")
		return
	}

	t := color.New()
	d := color.New(color.Faint)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	for _, e := range entries {
		if pp.ShowID {
			_, _ = y.Fprint(w, e.ID)
			if pad := idWidth - len(e.ID); pad > 0 {
				_, _ = y.Fprint(w, strings.Repeat(" ", pad))
			} else {
				_, _ = y.Fprint(w, " ")
			}
		}
		_, _ = t.Fprintf(w, "%s ", e.Sentiment.Emoji())
		_, _ = d.Fprintf(w, "%-20s ", e.Date.String())
		line := e.Title
		if p := e.Preview(0); p != "" {
			line += " - " + p
		}
		_, _ = t.Fprintln(w, truncate.StringWithTail(line, uint(pp.width()-24), "…"))
	}
	_, _ = t.Fprintln(w, "")
}

// Entry prints the full entry with the content rendered as markdown.
func (pp *PrettyPrint) Entry(e entry.Entry) {
	w := pp.out()
	b := color.New(color.Bold)
	f := color.New(color.Faint)

	_, _ = b.Fprintf(w, "%s %s\n", e.Sentiment.Emoji(), e.Title)
	_, _ = f.Fprintf(w, "%s · %s", e.Date.String(), e.Sentiment.Label())
	if pp.ShowID {
		_, _ = f.Fprintf(w, " · %s", e.ID)
	}
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, pp.Markdown(e.Content))
}

// Markdown renders md for the terminal, falling back to wrapped plain text.
func (pp *PrettyPrint) Markdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(pp.width()))
	if err == nil {
		if out, err := r.Render(md); err == nil {
			return out
		}
	}
	return wordwrap.String(md, pp.width())
}

// Users prints the admin user table.
func (pp *PrettyPrint) Users(users ...api.User) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	if pp.ShowID {
		tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Username"), bold.Sprint("Email"), bold.Sprint("Roles"))
	} else {
		tbl.AddRow(bold.Sprint("Username"), bold.Sprint("Email"), bold.Sprint("Roles"))
	}
	for _, u := range users {
		roles := strings.Join(u.Roles, ", ")
		if pp.ShowID {
			tbl.AddRow(u.ID, u.UserName, u.Email, roles)
		} else {
			tbl.AddRow(u.UserName, u.Email, roles)
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Weather prints the summary and whatever details the payload carried.
func (pp *PrettyPrint) Weather(s weather.Summary) {
	w := pp.out()
	b := color.New(color.Bold)
	f := color.New(color.Faint)

	_, _ = b.Fprintln(w, s.Line())
	var extra []string
	if s.FeelsLike != "" {
		extra = append(extra, "feels like "+s.FeelsLike)
	}
	if s.Humidity != "" {
		extra = append(extra, "humidity "+s.Humidity)
	}
	if len(extra) > 0 {
		_, _ = f.Fprintln(w, strings.Join(extra, ", "))
	}
}

// Moods prints the mood legend.
func (pp *PrettyPrint) Moods() {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Mood"), bold.Sprint("Name"), bold.Sprint("Value"))
	for _, s := range entry.Sentiments() {
		tbl.AddRow(s.Emoji(), s.Label(), string(s))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// JSON prints v as indented JSON.
func (pp *PrettyPrint) JSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(pp.out(), string(b))
	return err
}
