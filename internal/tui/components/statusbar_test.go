package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestStatusBarLineSettings(t *testing.T) {
	sb := NewStatusBar("Serial Listen", "/dev/ttyUSB0")
	if got := sb.lineSettings(); got != "⚡ serial" {
		t.Errorf("without info: %q", got)
	}

	info := &ConnectionInfo{BaudRate: 9600}
	sb.SetConnectionInfo(info)
	if got := sb.lineSettings(); !strings.Contains(got, "9600? baud 8N1") {
		t.Errorf("unconfirmed rate: %q", got)
	}

	info.Confirmed = true
	info.RxBytes = 12
	got := sb.lineSettings()
	if !strings.Contains(got, "9600 baud 8N1") || !strings.Contains(got, "rx 12 tx 0") {
		t.Errorf("confirmed rate: %q", got)
	}
}

func TestStatusBarStates(t *testing.T) {
	sb := NewStatusBar("Serial Connect", "/dev/ttyACM0")
	sb.SetWidth(120)

	sb.SetConnecting()
	if sb.Status() != "Connecting..." {
		t.Errorf("Status() = %q", sb.Status())
	}

	sb.SetDisconnected(errors.New("no such device"))
	if !strings.Contains(sb.Status(), "no such device") {
		t.Errorf("Status() = %q", sb.Status())
	}
	bar := sb.ComprehensiveStatusBar("NORMAL", "ASCII", false, "12:00:00")
	if !strings.Contains(bar, "✗") || !strings.Contains(bar, "/dev/ttyACM0") {
		t.Errorf("status bar missing error state: %q", bar)
	}
	if w := lipgloss.Width(bar); w != 120 {
		t.Errorf("status bar width = %d, want 120", w)
	}

	sb.SetConnected()
	bar = sb.ComprehensiveStatusBar("INSERT", "HEX", true, "12:00:01")
	if !strings.Contains(bar, "●") || !strings.Contains(bar, "[HEX] Tab to toggle") {
		t.Errorf("status bar missing connected insert state: %q", bar)
	}
}
