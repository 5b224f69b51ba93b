/*
Copyright © 2025 EmbedCreativity
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/embedcreativity/go-ecserial"
	"github.com/embedcreativity/go-ecserial/internal/tui/components"
	"github.com/embedcreativity/go-ecserial/internal/tui/keys"
	"github.com/embedcreativity/go-ecserial/internal/tui/models"
	"github.com/embedcreativity/go-ecserial/internal/tui/styles"
	"github.com/spf13/cobra"
)

// connectCmd represents the connect command
var connectCmd = &cobra.Command{
	Use:   "connect <port>",
	Short: "Connect to a serial port with bidirectional communication",
	Long: `Connect to a serial port with an interactive terminal.

Received data streams into the view while lines typed into the input field
are written to the port. Press 'i' to type, Enter to send, Tab to switch
between ASCII and hex input and Esc to go back to normal mode.

Example usage:
  ecserial connect /dev/ttyUSB0
  ecserial connect /dev/ttyUSB0 --baud 9600 --eol crlf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eol, _ := cmd.Flags().GetString("eol")
		lineEnding, err := parseLineEnding(eol)
		if err != nil {
			return err
		}

		m := newConnectModel(args[0], lineEnding)
		return runTerminal(m, m.listenModel)
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)

	connectCmd.Flags().String("eol", "lf", "Line ending appended to ASCII input: none, lf, cr, crlf")
}

func parseLineEnding(name string) (string, error) {
	switch name {
	case "none":
		return "", nil
	case "lf":
		return "\n", nil
	case "cr":
		return "\r", nil
	case "crlf":
		return "\r\n", nil
	}
	return "", fmt.Errorf("unknown line ending %q (want none, lf, cr or crlf)", name)
}

// connectModel adds an input line to the listen view
type connectModel struct {
	*listenModel
	input *components.Input
	keys  keys.ConnectKeys
}

func newConnectModel(portPath, lineEnding string) *connectModel {
	lm := newListenModel(portPath, "Serial Connect")
	// input box (3) and status bar
	lm.chrome = 4
	return &connectModel{
		listenModel: lm,
		input:       components.NewInput(lineEnding),
		keys:        keys.NewConnectKeys(),
	}
}

// writeCmd puts data on the line off the UI goroutine and reports the outcome
func writeCmd(port serial.Port, data []byte) tea.Cmd {
	return func() tea.Msg {
		status := components.TxWritten
		if err := port.WriteBytes(data); err != nil {
			logger.Warn("write failed", "port", port.Path(), "err", err)
			status = components.TxFailed
		}
		return components.DataReceivedMsg{
			Timestamp: time.Now(),
			Data:      data,
			IsTX:      true,
			Status:    status,
		}
	}
}

func (m *connectModel) send() tea.Cmd {
	port := m.GetPort()
	if port == nil || m.input.Value() == "" {
		return nil
	}

	data, err := m.input.Payload()
	if err != nil {
		m.terminal.AddFormattedMessage(styles.ErrorStyle.Render(fmt.Sprintf("Invalid input: %v", err)))
		return nil
	}

	m.input.AddToHistory(m.input.Value())
	m.input.SetValue("")
	return writeCmd(port, data)
}

func (m *connectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.input.SetWidth(size.Width)
	}
	if cmd, ok := m.handleCommon(msg); ok {
		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.IsInInsertMode() {
		switch {
		case key.Matches(keyMsg, m.keys.Escape):
			m.SetInputMode(models.InputModeNormal)
			m.input.Blur()
			return m, nil
		case key.Matches(keyMsg, m.keys.Enter):
			return m, m.send()
		case key.Matches(keyMsg, m.keys.Up):
			m.input.NavigateHistoryUp()
			return m, nil
		case key.Matches(keyMsg, m.keys.Down):
			m.input.NavigateHistoryDown()
			return m, nil
		case key.Matches(keyMsg, m.keys.ToggleSendMode):
			m.input.ToggleSendingMode()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(keyMsg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.Cleanup()
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.InsertMode):
		m.SetInputMode(models.InputModeInsert)
		m.input.Focus()
	case key.Matches(keyMsg, m.keys.ToggleSendMode):
		m.input.ToggleSendingMode()
	default:
		m.handleDisplayKey(keyMsg)
	}
	return m, nil
}

func (m *connectModel) View() string {
	sections := []string{
		styles.ContentBorderStyle.Render(m.content()),
		m.input.ViewWithMode(m.IsInInsertMode()),
	}
	if m.help.ShowAll {
		sections = append(sections, styles.HelpStyle.Render(m.help.View(m.keys)))
	}
	sections = append(sections, m.status(m.GetInputMode().String(), m.input.GetSendingMode().String()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
