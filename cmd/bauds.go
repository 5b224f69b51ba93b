/*
Copyright © 2025 EmbedCreativity
*/
package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/embedcreativity/go-ecserial"
	"github.com/embedcreativity/go-ecserial/internal/tui/colors"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
)

const (
	columnKeyRate     = "rate"
	columnKeyConstant = "constant"
	columnKeyEncoding = "encoding"
	columnKeyByte     = "byte"
)

// baudsCmd represents the bauds command
var baudsCmd = &cobra.Command{
	Use:   "bauds",
	Short: "Show the supported baud rates",
	Long: `Show every baud rate the port can be configured with, the termios constant
it maps to and how long one 8N1 byte takes on the wire at that rate.

Rates outside this table are rejected when a port is opened, unless
--baud-fallback is given, in which case the line is hung up (0 baud).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), baudTable().View())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(baudsCmd)
}

func baudTable() table.Model {
	columns := []table.Column{
		table.NewColumn(columnKeyRate, "Baud", 8),
		table.NewColumn(columnKeyConstant, "Constant", 9),
		table.NewColumn(columnKeyEncoding, "Encoding", 10),
		table.NewColumn(columnKeyByte, "Byte time", 11),
	}

	var rows []table.Row
	for _, rate := range serial.SupportedBaudRates() {
		speed, _ := serial.SpeedForBaud(rate)
		rows = append(rows, table.NewRow(table.RowData{
			columnKeyRate:     rate,
			columnKeyConstant: fmt.Sprintf("B%d", rate),
			columnKeyEncoding: fmt.Sprintf("%#o", speed),
			columnKeyByte:     byteTime(rate),
		}))
	}

	return table.New(columns).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(colors.Mauve)).
		WithBaseStyle(lipgloss.NewStyle().Align(lipgloss.Right).BorderForeground(colors.Surface2))
}

// byteTime is the time one start + 8 data + stop frame occupies at rate
func byteTime(rate int) string {
	if rate == 0 {
		return "hang up"
	}
	micros := 10 * 1_000_000 / rate
	if micros >= 1000 {
		return fmt.Sprintf("%.2fms", float64(micros)/1000)
	}
	return fmt.Sprintf("%dµs", micros)
}
