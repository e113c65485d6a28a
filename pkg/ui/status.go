package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Nitrolaunch/weld/pkg/ui/styles"
	"github.com/pterm/pterm"
)

// FileView is one pack file in a status report
type FileView struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// TargetView is one pack directory in a status report
type TargetView struct {
	Dir        string     `json:"dir"`
	Kind       string     `json:"kind"`
	Exists     bool       `json:"exists"`
	HasStaging bool       `json:"has_staging"`
	Files      []FileView `json:"files"`
}

// StatusView is everything the status command shows
type StatusView struct {
	GameDir string       `json:"game_dir"`
	Policy  string       `json:"policy"`
	Archive string       `json:"archive"`
	Targets []TargetView `json:"targets"`
}

// RenderStatus writes view to w in the given format
func RenderStatus(w io.Writer, format Format, view StatusView) error {
	switch format.Resolve(w) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case FormatTerminal:
		_, err := io.WriteString(w, renderTerminal(view))
		return err
	default:
		_, err := io.WriteString(w, renderText(view))
		return err
	}
}

func renderText(view StatusView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (policy %s, archive %s)\n", view.GameDir, view.Policy, view.Archive)

	if len(view.Targets) == 0 {
		b.WriteString("no pack directories\n")
		return b.String()
	}

	for _, target := range view.Targets {
		fmt.Fprintf(&b, "\n%s: %s\n", target.Kind, target.Dir)
		if !target.Exists {
			b.WriteString("    missing\n")
			continue
		}
		if len(target.Files) == 0 {
			b.WriteString("    empty\n")
			continue
		}
		for _, f := range target.Files {
			fmt.Fprintf(&b, "    %-10s %s\n", f.State, f.Name)
		}
	}
	return b.String()
}

func renderTerminal(view StatusView) string {
	var b strings.Builder
	b.WriteString(styles.Get("Title").Render("weld status "+view.GameDir) + "\n")
	b.WriteString(styles.Get("Muted").Render(fmt.Sprintf("policy %s, archive %s", view.Policy, view.Archive)) + "\n")

	if len(view.Targets) == 0 {
		b.WriteString("\n" + styles.Get("Warning").Render("No pack directories found") + "\n")
		return b.String()
	}

	for _, target := range view.Targets {
		b.WriteString("\n")
		b.WriteString(styles.Get("Target").Render(target.Kind) + " " + styles.Get("Path").Render(target.Dir) + "\n")

		switch {
		case !target.Exists:
			b.WriteString(styles.Get("FileName").Render(styles.Get("Warning").Render("missing")) + "\n")
			continue
		case len(target.Files) == 0:
			b.WriteString(styles.Get("FileName").Render(styles.Get("Muted").Render("empty")) + "\n")
			continue
		}

		for _, f := range target.Files {
			badge := StateStyle(f.State).Sprint(fmt.Sprintf(" %-10s ", f.State))
			b.WriteString(styles.Get("FileName").Render(badge+" "+f.Name) + "\n")
		}
	}
	return b.String()
}

// StateStyle returns the badge style for a file state
func StateStyle(state string) *pterm.Style {
	switch state {
	case "staged":
		return pterm.NewStyle(pterm.BgGreen, pterm.FgBlack)
	case "pending":
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case "restorable":
		return pterm.NewStyle(pterm.BgMagenta, pterm.FgWhite)
	case "archive":
		return pterm.NewStyle(pterm.FgCyan, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}
