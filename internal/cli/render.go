package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/roach88/aisync/internal/engine"
	"github.com/roach88/aisync/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"

// renderSyncSummary prints one line per artifact that changed or failed,
// grouped by target. Skips are only listed when verbose.
func renderSyncSummary(w io.Writer, s *engine.SyncSummary, verbose bool) {
	fmt.Fprintf(w, "Sync %s -> %s (job %s)\n", s.Source, joinSystems(s.Targets), s.JobID)
	if s.DryRun {
		fmt.Fprintln(w, "Dry run: nothing was written.")
	}

	for _, target := range s.Targets {
		fmt.Fprintf(w, "\n%s\n", target)
		shown := 0
		for _, r := range s.Details {
			if r.TargetSystem != target {
				continue
			}
			if r.Success && r.Operation == model.OpSkip && !verbose {
				continue
			}
			fmt.Fprintln(w, resultLine(r, verbose))
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(w, "  up to date")
		}
	}

	c := s.Results
	fmt.Fprintf(w, "\n%d artifacts: %d created, %d updated, %d skipped, %d deleted, %d failed",
		c.Total, c.Created, c.Updated, c.Skipped, c.Deleted, c.Failed)
	if c.Symlinked > 0 {
		fmt.Fprintf(w, " (%d symlinked)", c.Symlinked)
	}
	fmt.Fprintln(w)
}

func resultLine(r model.SyncResult, verbose bool) string {
	label := string(r.Operation)
	if !r.Success {
		label = "failed"
	}

	line := fmt.Sprintf("  %-7s %-12s %s", label, r.ArtifactType, r.ArtifactName)
	if r.Success && r.Operation != model.OpSkip && r.SyncMethod != model.MethodCopy && r.SyncMethod != "" {
		line += " [" + string(r.SyncMethod) + "]"
	}
	switch {
	case !r.Success:
		line += ": " + r.Error
	case verbose && r.Message != "":
		line += " (" + r.Message + ")"
	}
	if verbose && r.TargetPath != "" {
		line += "\n          " + r.TargetPath
	}
	return line
}

// renderDiff prints one line per artifact that differs. Unchanged artifacts
// are only listed when verbose.
func renderDiff(w io.Writer, source, target model.SystemID, diffs []model.ArtifactDiff, verbose bool) {
	fmt.Fprintf(w, "Diff %s -> %s\n", source, target)

	counts := map[model.DiffStatus]int{}
	for _, d := range diffs {
		counts[d.Status]++
		if d.Status == model.DiffUnchanged && !verbose {
			continue
		}
		fmt.Fprintf(w, "  %-9s %-12s %s\n", d.Status, d.Type, d.Name)
	}
	if len(diffs) == 0 {
		fmt.Fprintln(w, "  no artifacts")
	}

	fmt.Fprintf(w, "\n%d missing, %d modified, %d unchanged, %d added, %d deleted\n",
		counts[model.DiffMissing], counts[model.DiffModified], counts[model.DiffUnchanged],
		counts[model.DiffAdded], counts[model.DiffDeleted])
}

func renderStatus(w io.Writer, r *engine.StatusReport) error {
	fmt.Fprintf(w, "Project: %s\n", r.Root)
	fmt.Fprintf(w, "Last sync: %s\n\n", formatTime(r.LastSync))

	table := tablewriter.NewWriter(w)
	table.Header([]string{"System", "Name", "Configured", "Tracked", "Last seen"})
	for _, s := range r.Systems {
		if err := table.Append([]string{string(s.ID), s.Name, yesNo(s.Configured), strconv.Itoa(s.Tracked), formatTime(s.LastSeenAt)}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	st := r.Stats
	fmt.Fprintf(w, "\n%d artifacts, %d ledger entries (%d synced, %d failed), %d jobs\n",
		st.Artifacts, st.SyncStates, st.Synced, st.Failed, st.Jobs)
	return nil
}

func renderHistory(w io.Writer, jobs []model.SyncJob) error {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No sync jobs recorded.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Job", "Started", "Source", "Targets", "Status", "Created", "Updated", "Skipped", "Failed"})
	for _, j := range jobs {
		status := string(j.Status)
		if j.DryRun {
			status += " (dry run)"
		}
		err := table.Append([]string{
			j.ID,
			formatTime(j.StartedAt),
			string(j.SourceSystem),
			joinSystems(j.TargetSystems),
			status,
			strconv.Itoa(j.Summary.Created),
			strconv.Itoa(j.Summary.Updated),
			strconv.Itoa(j.Summary.Skipped),
			strconv.Itoa(j.Summary.Failed),
		})
		if err != nil {
			return err
		}
	}
	return table.Render()
}

func renderJobReport(w io.Writer, r *engine.JobReport) {
	j := r.Job
	fmt.Fprintf(w, "Job %s: %s -> %s, %s\n", j.ID, j.SourceSystem, joinSystems(j.TargetSystems), j.Status)
	fmt.Fprintf(w, "Started %s, completed %s\n", formatTime(j.StartedAt), formatTime(j.CompletedAt))
	if j.ErrorMessage != "" {
		fmt.Fprintf(w, "Error: %s\n", j.ErrorMessage)
	}
	if len(r.Results) == 0 {
		fmt.Fprintln(w, "\nNo results recorded.")
		return
	}

	var target model.SystemID
	for _, res := range r.Results {
		if res.TargetSystem != target {
			target = res.TargetSystem
			fmt.Fprintf(w, "\n%s\n", target)
		}
		fmt.Fprintln(w, resultLine(res, true))
	}
}

func joinSystems(ids []model.SystemID) string {
	if len(ids) == 0 {
		return "(none)"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(timeLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
