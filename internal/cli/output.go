package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mcoot/xctimer/internal/api/response"
	"github.com/mcoot/xctimer/internal/model"
	"github.com/mcoot/xctimer/internal/services/sharing"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, out, errOut io.Writer) *Output {
	return &Output{format: format, out: out, errOut: errOut}
}

func newOutput(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.errOut, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.out, string(data))
	} else {
		_, _ = fmt.Fprintln(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case model.Session:
		o.printSession(v)
	case model.Team:
		o.printf("Team: %s (%s)\n", v.Name, v.ID)
	case model.Runner:
		o.printRunner(v)
	case model.TimeEntry:
		o.printf("Recorded %s at %s for runner %s\n", v.Time, v.Checkpoint, v.RunnerID)
	case model.Standings:
		o.printStandings(v)
	case response.Checkpoints:
		o.printf("Unit: %s\n", v.Unit)
		o.printf("Checkpoints: %s\n", strings.Join(v.Checkpoints, ", "))
	case response.Screen:
		o.printf("Screen: %s\n", v.Screen)
	case response.Health:
		o.printf("Status: %s\n", v.Status)
		if v.Storage != "" {
			o.printf("Storage: %s\n", v.Storage)
		}
		if v.LastSaved != nil {
			o.printf("Last saved: %s\n", v.LastSaved.Local().Format(time.DateTime))
		}
	case sharing.SharePayload:
		o.printf("%s\n%s\n", titleStyle.Render(v.Title), v.Text)
		o.printf("URL: %d bytes\n", len(v.URL))
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.out, format, args...)
}

func (o *Output) printRunner(r model.Runner) {
	o.printf("Runner: %s (%s)\n", r.Name, r.ID)
	o.printf("Grade: %s\n", r.Grade)
	if r.TeamID != "" {
		o.printf("Team: %s\n", r.TeamID)
	}
}

func (o *Output) printSession(s model.Session) {
	o.printf("%s (%s)\n", titleStyle.Render(s.Name), s.ID)
	o.printf("Unit: %s\n", s.Unit)
	if s.CurrentRace != "" {
		o.printf("Race: %s\n", s.CurrentRace)
	}

	o.printf("Teams (%d):\n", len(s.Teams))
	for _, t := range s.Teams {
		o.printf("  - %s (%s) %s\n", t.Name, t.ID, t.Color)
	}

	o.printf("Runners (%d):\n", len(s.Runners))
	if len(s.Runners) == 0 {
		return
	}
	o.printf("%s\n", timesTable(s))
}

// timesTable lays out one row per runner with a column per checkpoint
func timesTable(s model.Session) string {
	checkpoints := s.Checkpoints()
	headers := append([]string{"ID", "Name", "Grade", "Team"}, checkpoints...)

	rows := lo.Map(s.Runners, func(r model.Runner, _ int) []string {
		team := ""
		if t := s.GetTeam(r.TeamID); t != nil {
			team = t.Name
		}
		row := []string{r.ID, r.Name, string(r.Grade), team}
		for _, cp := range checkpoints {
			cell := "-"
			if entry := s.TimeAt(r.ID, cp); entry != nil {
				cell = entry.Time
			}
			row = append(row, cell)
		}
		return row
	})

	return newTable(headers, rows)
}

func newTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func (o *Output) printStandings(st model.Standings) {
	o.printf("%s\n", titleStyle.Render("Checkpoint "+st.Checkpoint))
	if len(st.Runners) == 0 {
		o.printf("No times recorded\n")
		return
	}

	rows := lo.Map(st.Runners, func(p model.Placing, _ int) []string {
		teamPlace := ""
		if p.TeamPlace > 0 {
			teamPlace = strconv.Itoa(p.TeamPlace)
		}
		return []string{strconv.Itoa(p.Place), p.RunnerName, p.Time, teamPlace}
	})
	o.printf("%s\n", newTable([]string{"Place", "Runner", "Time", "Team place"}, rows))

	for _, t := range st.Teams {
		if !t.Complete {
			o.printf("%s: incomplete\n", t.TeamName)
			continue
		}
		o.printf("%s: %d (%s)\n", t.TeamName, t.Score, joinInts(t.Scorers))
	}
}

func joinInts(values []int) string {
	return strings.Join(lo.Map(values, func(v int, _ int) string { return strconv.Itoa(v) }), "+")
}
