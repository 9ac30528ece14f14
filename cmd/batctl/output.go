package main

import (
	"fmt"
	"time"

	"bat-monitor-be/internal/dto"
	"bat-monitor-be/pkg/classifier"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	dimColor  = color.New(color.Faint)
)

func setColor(enabled bool) {
	color.NoColor = !enabled || color.NoColor
}

// formatClassification renders one result line, colored by confidence.
func formatClassification(source string, res *dto.ClassificationResult) string {
	label := okColor.Sprint(res.Species)
	switch {
	case res.Species == classifier.UnknownSpecies:
		label = warnColor.Sprint(res.Species) + dimColor.Sprintf(" (best guess %s)", res.Predicted)
	case res.LowConfidence:
		label = warnColor.Sprint(res.Species) + dimColor.Sprint(" (low confidence)")
	}
	return fmt.Sprintf("%s: %s %.2f%%", source, label, res.Confidence)
}

type assetRow struct {
	Role       string
	Name       string
	ID         string
	Size       int64
	ModifiedAt time.Time
}

func renderAssetTable(rows []assetRow) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Role", "Name", "ID", "Size", "Modified"})

	for _, r := range rows {
		modified := ""
		if !r.ModifiedAt.IsZero() {
			modified = r.ModifiedAt.Local().Format("2006-01-02 15:04")
		}
		tw.AppendRow(table.Row{r.Role, r.Name, r.ID, humanSize(r.Size), modified})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
