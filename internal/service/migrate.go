package service

import (
	"context"
	"strings"

	"github.com/jjenkins/fieldservice/internal/dates"
	"github.com/jjenkins/fieldservice/internal/model"
	"go.uber.org/zap"
)

// MigrationReport summarizes a migration run
type MigrationReport struct {
	Territories       int
	Areas             int
	Schedules         int
	ResolvedAssignees int
	ResolvedCaptains  int
	Unresolved        []string
	DryRun            bool
}

// Migrator rewrites stored collections in canonical form: canonical status
// labels, record-shaped participants, default schedule categories,
// normalized dates and publisher references by id instead of by name.
type Migrator struct {
	base
}

// Run migrates every collection. With dryRun nothing is written.
func (m *Migrator) Run(ctx context.Context, dryRun bool) (*MigrationReport, error) {
	report := &MigrationReport{DryRun: dryRun}

	err := m.store.WithLock(func() error {
		pubs, err := m.publishers.Load(ctx)
		if err != nil {
			return err
		}
		byName := make(map[string]string, len(pubs))
		for _, p := range pubs {
			byName[strings.ToLower(strings.TrimSpace(p.Name))] = p.ID
		}

		territories, err := m.territories.Load(ctx)
		if err != nil {
			return err
		}
		for i := range territories {
			m.migrateTerritory(&territories[i], byName, report)
		}
		report.Territories = len(territories)

		areas, err := m.areas.Load(ctx)
		if err != nil {
			return err
		}
		report.Areas = len(areas)

		schedules, err := m.schedules.Load(ctx)
		if err != nil {
			return err
		}
		for i := range schedules {
			schedules[i].Date = dates.Normalize(schedules[i].Date)
			schedules[i].EndDate = dates.Normalize(schedules[i].EndDate)
		}
		sortSchedules(schedules)
		report.Schedules = len(schedules)

		if dryRun {
			return nil
		}
		if err := m.territories.Save(ctx, territories); err != nil {
			return err
		}
		if err := m.areas.Save(ctx, areas); err != nil {
			return err
		}
		return m.schedules.Save(ctx, schedules)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("migration finished",
		zap.Bool("dry_run", dryRun),
		zap.Int("territories", report.Territories),
		zap.Int("resolved_assignees", report.ResolvedAssignees),
		zap.Int("resolved_captains", report.ResolvedCaptains),
		zap.Int("unresolved", len(report.Unresolved)),
	)
	return report, nil
}

func (m *Migrator) migrateTerritory(t *model.Territory, byName map[string]string, report *MigrationReport) {
	if t.LegacyAssignedTo != "" {
		if id, ok := byName[strings.ToLower(strings.TrimSpace(t.LegacyAssignedTo))]; ok {
			if t.AssigneeID == "" {
				t.AssigneeID = id
			}
			t.LegacyAssignedTo = ""
			report.ResolvedAssignees++
		} else {
			report.Unresolved = append(report.Unresolved, t.LegacyAssignedTo)
		}
	}
	if t.LegacyCaptain != "" {
		if id, ok := byName[strings.ToLower(strings.TrimSpace(t.LegacyCaptain))]; ok {
			if t.CaptainID == "" {
				t.CaptainID = id
			}
			t.LegacyCaptain = ""
			report.ResolvedCaptains++
		} else {
			report.Unresolved = append(report.Unresolved, t.LegacyCaptain)
		}
	}
	t.AssignedDate = dates.Normalize(t.AssignedDate)
	t.DueDate = dates.Normalize(t.DueDate)
}
