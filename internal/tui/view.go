package tui

import (
	"fmt"
	"strings"

	"github.com/skypie-oracle/precomputer/internal/persist"
)

func (m Model) viewHUD() string {
	w := m.Wrapper
	line := fmt.Sprintf(
		"regions=%d stores=%d dim=%d optimal=%d candidates=%s optimal-path=%s",
		len(w.RegionNames), len(w.StoreNames), w.Dimension, w.OptimalCount, w.CandidatesPath, w.OptimalPath,
	)
	timing := fmt.Sprintf(
		"total=%s write-choice-gen=%s redundancy-elim=%s",
		w.Total, w.WriteChoiceGen, w.RedundancyElim,
	)
	return hudStyle.Render(line + "\n" + timing)
}

func (m Model) viewList() string {
	if len(m.Decisions) == 0 {
		return subtle.Render("no decisions in this file")
	}
	var b strings.Builder
	b.WriteString(highlight.Render(fmt.Sprintf("%-4s %-10s %s", "#", "stores", "cost[0]")) + "\n")
	for i, d := range m.Decisions {
		line := fmt.Sprintf("%-4d %-10s %s", i, strings.Join(d.WriteStoreNames, ","), firstCost(d))
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(listNormalStyle.Render("  "+line) + "\n")
		}
	}
	return b.String()
}

func (m Model) viewDetail() string {
	if m.cursor >= len(m.Decisions) {
		return subtle.Render("nothing selected")
	}
	d := m.Decisions[m.cursor]

	var assignments strings.Builder
	for _, a := range d.Assignments {
		fmt.Fprintf(&assignments, "  %s -> %s\n", a.RegionName, a.StoreName)
	}

	body := fmt.Sprintf(
		"write stores: %s\nassignments:\n%scost halfplane: %v\nrecorded: %s",
		strings.Join(d.WriteStoreNames, ", "),
		assignments.String(),
		d.CostHalfplane,
		d.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
	)
	return detailsBoxStyle.Render(body)
}

func firstCost(d persist.DecisionRecord) string {
	if len(d.CostHalfplane) == 0 {
		return "-"
	}
	return fmt.Sprintf("%.6f", d.CostHalfplane[0])
}
