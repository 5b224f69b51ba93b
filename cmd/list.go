/*
Copyright © 2025 EmbedCreativity
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/embedcreativity/go-ecserial"
	"github.com/embedcreativity/go-ecserial/internal/tui/colors"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all available serial ports on the system.

This command scans /dev for serial devices including:
- USB serial adapters (ttyUSB*)
- USB CDC/ACM devices (ttyACM*)
- Standard serial ports (ttyS*)
- ARM/Raspberry Pi ports (ttyAMA*)
- And other platform-specific serial devices

Virtual terminals and pseudo-terminals are excluded from the listing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serial.ListPorts()
		if err != nil {
			return fmt.Errorf("listing ports: %w", err)
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		out := cmd.OutOrStdout()
		filtered := filterPorts(ports, filterType)
		if len(filtered) == 0 {
			if filterType != "" && filterType != "all" {
				fmt.Fprintf(out, "No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Fprintln(out, "No serial ports found")
			}
			return nil
		}

		if tableFormat {
			renderTable(out, filtered)
		} else {
			renderSimple(out, filtered)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// filterPorts keeps the ports whose device name matches filterType
func filterPorts(ports []string, filterType string) []string {
	if filterType == "" || filterType == "all" {
		return ports
	}

	var prefixes []string
	switch strings.ToLower(filterType) {
	case "usb":
		prefixes = []string{"ttyUSB", "ttyACM"}
	case "standard":
		prefixes = []string{"ttyS"}
	case "arm":
		prefixes = []string{"ttyAMA"}
	}

	var filtered []string
	for _, port := range ports {
		name := port[strings.LastIndex(port, "/")+1:]
		for _, p := range prefixes {
			// ttyS must not swallow ttySAC
			if strings.HasPrefix(name, p) && (p != "ttyS" || !strings.HasPrefix(name, "ttySAC")) {
				filtered = append(filtered, port)
				break
			}
		}
	}
	return filtered
}

// renderTable renders the port list in a styled static table format
func renderTable(out io.Writer, ports []string) {
	fmt.Fprintf(out, "Found %d serial port(s):\n\n", len(ports))

	portWidth := 15
	typeWidth := 18
	driverWidth := 14
	descWidth := 28

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colors.Mauve).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colors.Surface1)

	cellStyle := lipgloss.NewStyle().
		PaddingRight(2)

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s",
		portWidth, "Port",
		typeWidth, "Type",
		driverWidth, "Driver",
		descWidth, "Description")
	fmt.Fprintln(out, headerStyle.Render(header))

	for _, port := range ports {
		info, err := serial.GetPortInfo(port)
		if err != nil {
			row := fmt.Sprintf("%-*s %-*s %-*s %-*s",
				portWidth, port,
				typeWidth, "Unknown",
				driverWidth, "-",
				descWidth, fmt.Sprintf("Error: %v", err))
			fmt.Fprintln(out, cellStyle.Render(row))
			continue
		}

		driver := info.Driver
		if driver == "" {
			driver = "-"
		}
		row := fmt.Sprintf("%-*s %-*s %-*s %-*s",
			portWidth, info.Name,
			typeWidth, getPortType(info.Name),
			driverWidth, driver,
			descWidth, info.Description)
		fmt.Fprintln(out, cellStyle.Render(row))
	}
}

func renderSimple(out io.Writer, ports []string) {
	for _, port := range ports {
		fmt.Fprintln(out, port)
	}
}

// getPortType returns a short type label for the device name
func getPortType(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(name, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(name, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	default:
		return "Serial Port"
	}
}
