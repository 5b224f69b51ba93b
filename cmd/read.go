/*
Copyright © 2025 EmbedCreativity
*/
package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/embedcreativity/go-ecserial"
	"github.com/embedcreativity/go-ecserial/internal/tui/components"
	"github.com/spf13/cobra"
)

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read <port> <count>",
	Short: "Read a fixed number of bytes from a serial port",
	Long: `Read up to <count> bytes from a serial port, waiting at most --timeout.

Input that arrived before the command started is discarded first unless
--flush=false is given. A timeout of 0 polls once and returns immediately.
When the deadline passes first, the bytes that did arrive are still printed
and the command exits with status 2. Any other failure exits with status 1.

Example usage:
  ecserial read /dev/ttyUSB0 16 --timeout 500ms
  ecserial read /dev/ttyUSB0 64 --hex
  ecserial read /dev/ttyACM0 8 --timeout 0 --flush=false --status`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		portPath := args[0]
		count, err := strconv.Atoi(args[1])
		if err != nil || count < 0 {
			return fmt.Errorf("invalid byte count %q", args[1])
		}

		timeout, _ := cmd.Flags().GetDuration("timeout")
		hexMode, _ := cmd.Flags().GetBool("hex")
		showStatus, _ := cmd.Flags().GetBool("status")
		flush, _ := cmd.Flags().GetBool("flush")

		port, err := openPort(portPath)
		if err != nil {
			return err
		}
		defer port.Close()

		if flush {
			if err := port.FlushInput(); err != nil {
				return err
			}
		}

		buf := make([]byte, count)
		n, err := port.Read(buf, timeout)
		logger.Debug("read finished", "want", count, "got", n, "err", err)

		out := cmd.OutOrStdout()
		switch {
		case hexMode:
			if n > 0 {
				fmt.Fprintf(out, "% X  %s\n", buf[:n], components.Printable(buf[:n]))
			}
		default:
			out.Write(buf[:n])
		}
		if showStatus {
			fmt.Fprintln(cmd.ErrOrStderr(), serial.StatusCode(n, err))
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().DurationP("timeout", "t", time.Second, "Give up after this long (0 polls once)")
	readCmd.Flags().BoolP("hex", "x", false, "Print a hex and ASCII dump instead of raw bytes")
	readCmd.Flags().Bool("flush", true, "Discard input that arrived before the read started")
	readCmd.Flags().Bool("status", false, "Print the legacy result code (byte count, -1 or -2) to stderr")
}
