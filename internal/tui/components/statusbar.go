package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/embedcreativity/go-ecserial/internal/tui/colors"
	"github.com/embedcreativity/go-ecserial/internal/tui/styles"
)

// ConnectionInfo is what the status bar knows about the open line
type ConnectionInfo struct {
	BaudRate int
	// Confirmed is set once the rate has been read back from the device
	Confirmed bool
	RxBytes   int
	TxBytes   int
}

type StatusBar struct {
	title          string
	portPath       string
	status         string
	err            error
	width          int
	connectionInfo *ConnectionInfo
}

func NewStatusBar(title, portPath string) *StatusBar {
	return &StatusBar{
		title:    title,
		portPath: portPath,
		status:   "Initializing...",
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetConnectionInfo(info *ConnectionInfo) {
	sb.connectionInfo = info
}

func (sb *StatusBar) ConnectionInfo() *ConnectionInfo {
	return sb.connectionInfo
}

func (sb *StatusBar) SetConnecting() {
	sb.status = "Connecting..."
	sb.err = nil
}

func (sb *StatusBar) SetConnected() {
	sb.status = "Connected"
	sb.err = nil
}

func (sb *StatusBar) SetDisconnected(err error) {
	if err != nil {
		sb.status = fmt.Sprintf("Connection failed: %v", err)
		sb.err = err
	} else {
		sb.status = "Disconnected"
		sb.err = nil
	}
}

func (sb *StatusBar) Status() string {
	return sb.status
}

// lineSettings renders the fixed framing with the configured rate
func (sb *StatusBar) lineSettings() string {
	if sb.connectionInfo == nil {
		return "⚡ serial"
	}
	rate := fmt.Sprintf("%d", sb.connectionInfo.BaudRate)
	if !sb.connectionInfo.Confirmed {
		rate += "?"
	}
	return fmt.Sprintf("⚡ %s baud 8N1  rx %d tx %d",
		rate, sb.connectionInfo.RxBytes, sb.connectionInfo.TxBytes)
}

// ComprehensiveStatusBar renders mode, port, connection state, line settings
// and the clock on a single line
func (sb *StatusBar) ComprehensiveStatusBar(inputMode, sendingMode string, connected bool, timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	modeBackground := colors.Blue
	if inputMode == "INSERT" {
		modeBackground = colors.Green
	}
	mode := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(modeBackground).
		Bold(true).
		Padding(0, 1).
		Render(inputMode)

	port := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.portPath)

	state, connIndicator := styles.StatusDisconnected, "○"
	switch {
	case sb.err != nil:
		state, connIndicator = styles.StatusError, "✗"
	case connected:
		state, connIndicator = styles.StatusConnected, "●"
	case sb.status == "Connecting...":
		state = styles.StatusConnecting
	}
	connectionIndicator := styles.GetStatusStyle(state).Render(connIndicator)

	connectionDetails := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(sb.lineSettings())

	clock := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(timestamp)

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	left := []string{mode, port, connectionIndicator}
	if inputMode == "INSERT" {
		left = append(left, lipgloss.NewStyle().
			Foreground(colors.Peach).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("[%s] Tab to toggle", sendingMode)))
	}
	left = append(left, divider)
	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, left...)

	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, connectionDetails, divider, clock)

	spacerWidth := terminalWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(terminalWidth).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
