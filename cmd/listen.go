/*
Copyright © 2025 EmbedCreativity
*/
package cmd

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/embedcreativity/go-ecserial/internal/tui/components"
	"github.com/embedcreativity/go-ecserial/internal/tui/keys"
	"github.com/embedcreativity/go-ecserial/internal/tui/models"
	"github.com/embedcreativity/go-ecserial/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// readWindow is the longest a received byte waits before it is displayed
const readWindow = 20 * time.Millisecond

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen <port>",
	Short: "Listen for data on a serial port with real-time display",
	Long: `Listen for incoming data on a serial port in a terminal user interface.

Features include:
- Real-time data streaming with timestamps
- ASCII and hex display modes
- Connection status and line settings in the status bar

Example usage:
  ecserial listen /dev/ttyUSB0
  ecserial listen /dev/ttyUSB0 --baud 9600
  ecserial listen /dev/ttyUSB0 --no-timestamps`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noTimestamps, _ := cmd.Flags().GetBool("no-timestamps")
		hexOnly, _ := cmd.Flags().GetBool("hex")

		m := newListenModel(args[0], "Serial Listen")
		m.terminal.Formatter().SetDisplayMode(components.DisplayMode{
			ShowHex:        true,
			ShowASCII:      !hexOnly,
			ShowTimestamps: !noTimestamps,
		})
		return runTerminal(m, m)
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().Bool("no-timestamps", false, "Hide timestamps from output")
	listenCmd.Flags().BoolP("hex", "x", false, "Show hex only")
}

// listenModel represents the Bubble Tea model for the listen command
type listenModel struct {
	*models.SerialModel
	terminal  *components.Terminal
	statusBar *components.StatusBar
	help      help.Model
	keys      keys.TerminalKeys
	// chrome is the number of lines around the terminal viewport
	chrome int
}

func newListenModel(portPath, title string) *listenModel {
	m := &listenModel{
		SerialModel: models.NewSerialModel(portPath),
		terminal:    components.NewTerminal(80, 20),
		statusBar:   components.NewStatusBar(title, portPath),
		help:        help.New(),
		keys:        keys.NewTerminalKeys(),
		chrome:      1,
	}
	m.statusBar.SetConnecting()
	m.statusBar.SetConnectionInfo(&components.ConnectionInfo{BaudRate: viper.GetInt("baud")})
	return m
}

// runTerminal opens the port in the background, streams everything it
// receives into the program and blocks until the user quits
func runTerminal(model tea.Model, m *listenModel) error {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	go func() {
		port, err := openPort(m.GetPortPath())
		if err != nil {
			p.Send(models.ConnectionStatusMsg{Connected: false, Error: err})
			return
		}
		m.SetPort(port)
		if m.GetContext().Err() != nil {
			// quit before the open finished
			m.Cleanup()
			return
		}

		rate, err := port.BaudRate()
		if err != nil {
			logger.Warn("baud read-back failed", "port", m.GetPortPath(), "err", err)
		}
		p.Send(models.ConnectionStatusMsg{Connected: true, BaudRate: rate})

		err = models.ReadLoop(m.GetContext(), port, 4096, readWindow, func(msg components.DataReceivedMsg) {
			p.Send(msg)
		})
		if err != nil {
			p.Send(models.ConnectionStatusMsg{Connected: false, Error: err})
		}
	}()

	_, err := p.Run()
	m.Cleanup()
	return err
}

func (m *listenModel) Init() tea.Cmd {
	return nil
}

// handleCommon deals with the messages every terminal view shares. It
// reports whether msg was consumed.
func (m *listenModel) handleCommon(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.terminal.SetSize(msg.Width, msg.Height-m.chrome)
		m.statusBar.SetWidth(msg.Width)
		m.SetReady(true)
		_, cmd := m.terminal.Update(msg)
		return cmd, true

	case models.ConnectionStatusMsg:
		m.SetConnected(msg.Connected)
		if msg.Error != nil {
			m.SetError(msg.Error)
			m.statusBar.SetDisconnected(msg.Error)
			return nil, true
		}
		m.statusBar.SetConnected()
		if info := m.statusBar.ConnectionInfo(); info != nil && msg.BaudRate >= 0 {
			info.BaudRate = msg.BaudRate
			info.Confirmed = true
		}
		return nil, true

	case components.DataReceivedMsg:
		if info := m.statusBar.ConnectionInfo(); info != nil {
			if msg.IsTX {
				if msg.Status == components.TxWritten {
					info.TxBytes += len(msg.Data)
				}
			} else {
				info.RxBytes += len(msg.Data)
			}
		}
		m.AddRawData(msg)
		m.terminal.AddMessage(msg)
		return nil, true
	}
	return nil, false
}

// handleDisplayKey applies the display toggles shared by every terminal view
func (m *listenModel) handleDisplayKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Clear):
		m.ClearData()
		m.terminal.Clear()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.ToggleHex):
		m.terminal.ToggleHex()
		m.terminal.RefreshDisplayWithRawData(m.GetRawData())
	case key.Matches(msg, m.keys.ToggleASCII):
		m.terminal.ToggleASCII()
		m.terminal.RefreshDisplayWithRawData(m.GetRawData())
	case key.Matches(msg, m.keys.ToggleTimestamps):
		m.terminal.ToggleTimestamps()
		m.terminal.RefreshDisplayWithRawData(m.GetRawData())
	default:
		return false
	}
	return true
}

func (m *listenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleCommon(msg); ok {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.Quit) {
			m.Cleanup()
			return m, tea.Quit
		}
		m.handleDisplayKey(msg)
	}
	return m, nil
}

func (m *listenModel) content() string {
	if !m.IsReady() {
		return "Initializing..."
	}
	return m.terminal.View()
}

func (m *listenModel) status(inputMode, sendingMode string) string {
	return m.statusBar.ComprehensiveStatusBar(inputMode, sendingMode, m.IsConnected(), time.Now().Format("15:04:05"))
}

func (m *listenModel) View() string {
	sections := []string{styles.ContentBorderStyle.Render(m.content())}
	if m.help.ShowAll {
		sections = append(sections, styles.HelpStyle.Render(m.help.View(m.keys)))
	}
	sections = append(sections, m.status("LISTEN", ""))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
