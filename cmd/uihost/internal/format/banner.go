package format

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ServingInfo describes a running server for the startup banner.
type ServingInfo struct {
	URL         string   `json:"url"`
	Addr        string   `json:"addr"`
	Port        int      `json:"port"`
	LocalAccess bool     `json:"allow_local_access"`
	Metrics     string   `json:"metrics_addr,omitempty"`
	Args        []string `json:"args,omitempty"`
}

var (
	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	bannerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	bannerURLStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Underline(true)
	bannerHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	plainBannerStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
)

// PrintServing prints the startup banner.
// Quiet mode prints only the URL so scripts can capture it.
func (f *formatter) PrintServing(info ServingInfo) error {
	if f.mode == ModeJSON {
		return f.PrintJSON(info)
	}

	if f.quiet {
		_, err := fmt.Fprintln(f.stdout, info.URL)
		return err
	}

	scope := "loopback only"
	if info.LocalAccess {
		scope = "all interfaces"
	}

	lines := []string{
		"uihost is serving",
		"",
		"URL:     " + info.URL,
		"Listen:  " + info.Addr + " (" + scope + ")",
	}
	if info.Metrics != "" {
		lines = append(lines, "Metrics: http://"+info.Metrics+"/metrics")
	}
	if len(info.Args) > 0 {
		lines = append(lines, "Args:    "+strings.Join(info.Args, " "))
	}
	lines = append(lines, "", "Press Ctrl+C to stop")

	if !f.color {
		_, err := fmt.Fprintln(f.stdout, plainBannerStyle.Render(strings.Join(lines, "\n")))
		return err
	}

	lines[0] = bannerTitleStyle.Render(lines[0])
	lines[2] = "URL:     " + bannerURLStyle.Render(info.URL)
	lines[len(lines)-1] = bannerHintStyle.Render(lines[len(lines)-1])

	_, err := fmt.Fprintln(f.stdout, bannerStyle.Render(strings.Join(lines, "\n")))
	return err
}
