package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jjenkins/fieldservice/internal/service"
	"github.com/jjenkins/fieldservice/internal/tracker"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print territory and schedule counts",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

var (
	statsTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	statsLabel = lipgloss.NewStyle().
			Width(22).
			Foreground(lipgloss.Color("#AAAAAA"))
	statsWarn = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
	statsBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

func runStats(cmd *cobra.Command, args []string) error {
	e, err := setup(context.Background())
	if err != nil {
		return err
	}
	defer e.Close()

	sum, err := e.svc.Stats.Calculate(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderStats(sum))
	return nil
}

func renderStats(sum *service.Summary) string {
	row := func(label string, v int) string {
		return statsLabel.Render(label) + fmt.Sprint(v)
	}

	territories := []string{statsTitle.Render("Territories"), row("Total", sum.TotalTerritories)}
	for _, st := range tracker.All {
		territories = append(territories, row(st.Label(), sum.TerritoriesBy[st]))
	}
	overdue := row("Overdue", sum.Overdue)
	if sum.Overdue > 0 {
		overdue = statsLabel.Render("Overdue") + statsWarn.Render(fmt.Sprint(sum.Overdue))
	}
	territories = append(territories, overdue)

	groups := make([]string, 0, len(sum.TerritoriesByGroup))
	for g := range sum.TerritoriesByGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	for _, g := range groups {
		territories = append(territories, row("  "+g, sum.TerritoriesByGroup[g]))
	}

	areas := []string{statsTitle.Render("Areas"), row("Total", sum.TotalAreas)}
	for _, st := range tracker.All {
		areas = append(areas, row(st.Label(), sum.AreasBy[st]))
	}

	other := []string{
		statsTitle.Render("Congregation"),
		row("Publishers", sum.Publishers),
		row("Captains", sum.Captains),
		row("Upcoming schedules", sum.UpcomingSchedules),
		row("Current notices", sum.CurrentNotices),
		row("Cleaning groups", sum.CleaningGroups),
	}

	stored := []string{statsTitle.Render("Last updated")}
	for _, c := range sum.Collections {
		at := "-"
		if !c.UpdatedAt.IsZero() {
			at = c.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		stored = append(stored, statsLabel.Render(c.Key)+at)
	}
	if len(sum.Collections) == 0 {
		stored = append(stored, statsLabel.Render("No data"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		statsBox.Render(strings.Join(territories, "\n")),
		statsBox.Render(strings.Join(areas, "\n")),
		statsBox.Render(strings.Join(other, "\n")),
		statsBox.Render(strings.Join(stored, "\n")),
	)
}
