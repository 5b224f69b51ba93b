/*
Copyright © 2025 EmbedCreativity
*/
package cmd

import (
	"fmt"

	"github.com/embedcreativity/go-ecserial"
	"github.com/embedcreativity/go-ecserial/internal/tui/styles"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display information about a serial port",
	Long: `Display what /dev and sysfs report about a serial port, then open it with
the configured settings and read the line speed back from the device.

Examples:
  ecserial info /dev/ttyUSB0
  ecserial info /dev/ttyACM0 --baud 115200
  ecserial info /dev/ttyS0 --no-probe`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		portPath := args[0]
		noProbe, _ := cmd.Flags().GetBool("no-probe")
		out := cmd.OutOrStdout()

		info, err := serial.GetPortInfo(portPath)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Port Information: %s\n\n", info.Path)
		fmt.Fprintf(out, "  Name:        %s\n", info.Name)
		fmt.Fprintf(out, "  Description: %s\n", info.Description)
		if info.Driver != "" {
			fmt.Fprintf(out, "  Driver:      %s\n", info.Driver)
		}

		if noProbe {
			return nil
		}

		port, err := openPort(portPath)
		if err != nil {
			return err
		}
		defer port.Close()

		rate, err := port.BaudRate()
		if err != nil {
			fmt.Fprintf(out, "  Line:        %s %v\n", styles.WarnStyle.Render("?"), err)
			return nil
		}
		fmt.Fprintf(out, "  Line:        %d baud 8N1, no flow control\n", rate)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().Bool("no-probe", false, "Do not open the port to read back its line settings")
}
