package errs

import "fmt"

type Code string

const (
	ForceCheckWithQuery Code = "FORCE_CHECK_WITH_QUERY"
	UpgradeNeedsPlugins Code = "UPGRADE_NEEDS_PLUGINS"
	UnknownUpgradeKind  Code = "UNKNOWN_UPGRADE_KIND"
)

var messages = map[Code]string{
	ForceCheckWithQuery: `Invalid flag combination: cannot use --force-check with --query %[1]s=...

Usage:
  - Simulate the "Check again" button:
      bif-updater admin-init --force-check
  - Dispatch an arbitrary admin request:
      bif-updater admin-init --query page=plugins

Reason:
  --force-check already sets %[1]s=1 on the request.`,

	UpgradeNeedsPlugins: `Missing targets: --plugins is required with --action %[1]s --type %[2]s

Examples:
  bif-updater upgrade-complete --action update --type plugin --plugins %[3]s`,

	UnknownUpgradeKind: `Invalid value: --%[1]s %[2]q

Accepted values:
  --action  update | install
  --type    plugin | theme`,
}

func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	return fmt.Sprintf(msg, a...)
}
