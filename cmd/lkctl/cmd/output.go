package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	apiclient "github.com/jockelind/lagerkoll/internal/api/client"
	domain "github.com/jockelind/lagerkoll/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printItemTable(items []domain.Item) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tPRODUCT\tREGION\tSTOCK\tPROBABILITY\tACTIVE\tCHECKED\n")
	for i := range items {
		it := &items[i]
		stock := "-"
		if it.LastStock != nil {
			stock = fmt.Sprintf("%d", *it.LastStock)
		}
		prob := "-"
		if it.LastProbability != nil {
			prob = truncate(*it.LastProbability, 30)
		}
		checked := "never"
		if it.LastCheckedAt != nil {
			checked = it.LastCheckedAt.Format("2006-01-02 15:04")
		}
		tw.writef("%d\t%s\t%s\t%s\t%s\t%s\t%v\t%s\n",
			it.ID,
			truncate(it.Name, 30),
			it.ProductID,
			it.RegionCode,
			stock,
			prob,
			it.Active,
			checked,
		)
	}
	return tw.finish()
}

func printItemDetail(it *domain.Item) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%d\n", it.ID)
	tw.writef("Name:\t%s\n", it.Name)
	tw.writef("Product:\t%s\n", it.ProductID)
	tw.writef("Region:\t%s\n", it.RegionCode)
	stores := it.StoreIDs
	if stores == "" {
		stores = "all stores in region"
	}
	tw.writef("Stores:\t%s\n", stores)
	tw.writef("Active:\t%v\n", it.Active)
	tw.writef("Owner:\t%d\n", it.UserID)
	if it.LastStock != nil {
		tw.writef("Stock:\t%d\n", *it.LastStock)
	}
	if it.LastProbability != nil {
		tw.writef("Probability:\t%s\n", *it.LastProbability)
	}
	if it.LastCheckedAt != nil {
		tw.writef("Checked:\t%s\n", it.LastCheckedAt.Format("2006-01-02 15:04:05"))
	}
	if it.NotifyAboveEnabled && it.NotifyAboveThreshold != nil {
		tw.writef("Alert above:\t%d\n", *it.NotifyAboveThreshold)
	}
	if it.NotifyBelowEnabled && it.NotifyBelowThreshold != nil {
		tw.writef("Alert below:\t%d\n", *it.NotifyBelowThreshold)
	}
	return tw.finish()
}

func printSnapshotTable(snapshots []domain.Snapshot) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tTIMESTAMP\tSTOCK\tPROBABILITY\n")
	for i := range snapshots {
		s := &snapshots[i]
		stock := "-"
		if s.TotalStock != nil {
			stock = fmt.Sprintf("%d", *s.TotalStock)
		}
		tw.writef("%d\t%s\t%s\t%s\n",
			s.ID,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			stock,
			truncate(s.ProbabilitySummary, 50),
		)
	}
	return tw.finish()
}

func printUserTable(users []domain.User) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tUSERNAME\tROLE\tEMAIL\n")
	for i := range users {
		email := "-"
		if users[i].Email != nil {
			email = *users[i].Email
		}
		tw.writef("%d\t%s\t%s\t%s\n",
			users[i].ID,
			users[i].Username,
			users[i].Role,
			email,
		)
	}
	return tw.finish()
}

func printDashboard(s *domain.DashboardSummary) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Items:\t%d\n", s.ItemsTotal)
	tw.writef("Active:\t%d\n", s.ItemsActive)
	tw.writef("Inactive:\t%d\n", s.ItemsInactive)
	tw.writef("In stock:\t%d\n", s.ItemsInStock)
	tw.writef("Out of stock:\t%d\n", s.ItemsOutOfStock)
	tw.writef("Unknown:\t%d\n", s.ItemsUnknownStock)
	tw.writef("With alerts:\t%d\n", s.ItemsNotifyEnabled)
	if s.LastCheckedAt != nil {
		tw.writef("Last check:\t%s\n", s.LastCheckedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.finish()
}

func printCheckResult(res *apiclient.CheckResult) error {
	tw := newTabWriter(os.Stdout)
	if res.OK {
		tw.writef("Result:\tok\n")
		if res.TotalStock != nil {
			tw.writef("Stock:\t%d\n", *res.TotalStock)
		}
		tw.writef("Probability:\t%s\n", res.Probability)
	} else {
		tw.writef("Result:\tfailed\n")
		tw.writef("Error:\t%s\n", res.Error)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
