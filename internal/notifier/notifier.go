package notifier

import (
	"fmt"
	"strings"

	"github.com/wpsix/breakdance-icon-fix/internal/host"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/printer"
	"github.com/wpsix/breakdance-icon-fix/internal/utils"
)

const (
	borderColor = "\033[38;5;39m"
	resetColor  = "\033[0m"
	padding     = 2
)

// DisplayUpdateNotification prints the banner when the host update transient
// lists a pending update for plugin.
func DisplayUpdateNotification(site host.SiteTransients, plugin, installed string) {
	state, ok, err := site.GetSite(host.UpdatePluginsScope)
	if err != nil {
		logger.Debug("failed to load %s: %v", host.UpdatePluginsScope, err)
		return
	}
	if !ok {
		return
	}

	d, ok := state.Pending(plugin)
	if !ok {
		return
	}

	DisplayVersionUpdate(plugin, installed, d.NewVersion)
}

// DisplayVersionUpdate shows a formatted notification for a new version
func DisplayVersionUpdate(plugin, installed, version string) {
	p := printer.NewColorPrinter()

	title := p.Success("Plugin Update Available!")
	detected := p.Info(plugin + ":")
	command := p.Warning("Run ")
	upgradeCmd := p.Success("wp plugin update " + strings.Split(plugin, "/")[0])
	instruction := p.Warning(" to update.")
	actualVersion := p.Error(installed)
	versionInfo := p.Success(version)

	lines := []string{
		title,
		fmt.Sprintf("%s %s -> %s", detected, actualVersion, versionInfo),
		fmt.Sprintf("%s%s%s", command, upgradeCmd, instruction),
	}

	maxWidth := utils.GetMaxWidth(lines) + padding*2
	topBottomBorder := borderColor + "╭" + strings.Repeat("─", maxWidth) + "╮" + resetColor
	sideBorder := borderColor + "│" + resetColor

	fmt.Println(topBottomBorder)
	for _, line := range lines {
		paddingLeft := (maxWidth - len(utils.StripANSI(line))) / 2
		paddingRight := maxWidth - len(utils.StripANSI(line)) - paddingLeft
		fmt.Printf("%s%s%s%s%s\n", sideBorder, strings.Repeat(" ", paddingLeft), line, strings.Repeat(" ", paddingRight), sideBorder)
	}
	fmt.Println(borderColor + "╰" + strings.Repeat("─", maxWidth) + "╯" + resetColor)
}
