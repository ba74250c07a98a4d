package instance

import (
	"fmt"
	"strings"

	"github.com/quickfixgo/quickfix"

	"github.com/quantclip/fix-brokerage/pkg/config"
)

// BuildSettingsINI renders the engine session settings for one
// connection attempt. Sequence reset behavior is decided per logon in
// ToAdmin, so the engine-level reset switches stay off.
func BuildSettingsINI(cfg config.FIXConfig, senderCompID string) string {
	var b strings.Builder

	b.WriteString("[DEFAULT]\n")
	fmt.Fprintf(&b, "SocketConnectHost=%s\n", cfg.Host)
	fmt.Fprintf(&b, "SocketConnectPort=%d\n", cfg.Port)
	fmt.Fprintf(&b, "HeartBtInt=%d\n", cfg.HeartbeatInterval)
	fmt.Fprintf(&b, "ReconnectInterval=%d\n", cfg.ReconnectInterval)
	fmt.Fprintf(&b, "LogonTimeout=%d\n", cfg.LogonTimeout)
	b.WriteString("ResetOnLogon=N\n")
	b.WriteString("ResetOnLogout=N\n")
	b.WriteString("ResetOnDisconnect=N\n")

	b.WriteString("\n[SESSION]\n")
	fmt.Fprintf(&b, "BeginString=%s\n", config.BeginString)
	fmt.Fprintf(&b, "SenderCompID=%s\n", senderCompID)
	fmt.Fprintf(&b, "TargetCompID=%s\n", cfg.TargetCompID)
	if cfg.DataDictionary != "" {
		b.WriteString("UseDataDictionary=Y\n")
		fmt.Fprintf(&b, "DataDictionary=%s\n", cfg.DataDictionary)
	} else {
		b.WriteString("UseDataDictionary=N\n")
	}

	return b.String()
}

// ParseSettings parses the rendered settings into engine form.
func ParseSettings(cfg config.FIXConfig, senderCompID string) (*quickfix.Settings, error) {
	return quickfix.ParseSettings(strings.NewReader(BuildSettingsINI(cfg, senderCompID)))
}
