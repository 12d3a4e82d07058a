package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mediasurface/mediasurface/icon"
	"github.com/mediasurface/mediasurface/key"
	"github.com/mediasurface/mediasurface/player"
	"github.com/mediasurface/mediasurface/style"
	"github.com/spf13/viper"
)

// CheckDependencies exits if the configured engine backend needs an executable that is not on the PATH.
func CheckDependencies() {
	if strings.ToLower(viper.GetString(key.EngineBackend)) != player.BackendMpv {
		return
	}

	binary := viper.GetString(key.EngineMpvBinary)
	if _, err := exec.LookPath(binary); err != nil {
		printMissingDependencyError(binary)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install mpv"
	case "linux":
		installCmd = "sudo apt install mpv"
	case "windows":
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Red).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.Red).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep)

	suggestion := fmt.Sprintf("\n\nTo try without it, run with %s", style.New().Foreground(style.Accent).Bold(true).Render("--engine sim"))
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.Accent).Bold(true).Render(installCmd)) + suggestion
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
