package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/ironsheep/icon-forge/internal/batch"
	"github.com/ironsheep/icon-forge/internal/catalog"
	"github.com/ironsheep/icon-forge/internal/paths"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	problemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	deletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	timingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

func renderHeader(w io.Writer, opts batch.Options, elementTypes []string) {
	fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf("Platform: %s", paths.DetectPlatform())))
	fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf("Input folder: %s", opts.SourceDir)))
	fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf("Output folder: %s", opts.OutputDir)))
	for _, et := range elementTypes {
		folder := opts.LayerFolder(et)
		if folder == "" {
			folder = "(none)"
		}
		fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf("Layer folder for '%s': %s", et, folder)))
	}
}

func renderReport(w io.Writer, r *batch.Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, successStyle.Render("Processing complete!"))
	fmt.Fprintf(w, "%d of %d icons written\n", r.Written, r.Tasks)

	if r.Failed > 0 {
		fmt.Fprintln(w, problemStyle.Render(fmt.Sprintf("Failed to write %d icon(s), see log", r.Failed)))
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintln(w, problemStyle.Render("Skipped images:"))
		for _, s := range r.Skipped {
			fmt.Fprintf(w, " - %s\n", s)
		}
	}

	if len(r.Missing) > 0 {
		fmt.Fprintln(w, problemStyle.Render("Skipped layers:"))
		for _, m := range r.Missing {
			fmt.Fprintf(w, " - %s\n", m)
		}
	}

	fmt.Fprintln(w, timingStyle.Render(fmt.Sprintf("Total processing time: %.2fs", r.Elapsed.Seconds())))
}

func renderCatalog(w io.Writer, path string, res *catalog.Result) {
	for _, k := range res.Added {
		fmt.Fprintln(w, addedStyle.Render("Added:   "+k))
	}
	for _, k := range res.Deleted {
		fmt.Fprintln(w, deletedStyle.Render("Deleted: "+k))
	}
	if len(res.Added)+len(res.Deleted) == 0 {
		fmt.Fprintln(w, "No changes.")
	}
	fmt.Fprintf(w, "JSON file '%s' updated (%d entries).\n", path, res.Entries)
}
