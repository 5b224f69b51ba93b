/*
Copyright © 2025 EmbedCreativity
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/embedcreativity/go-ecserial"
	"github.com/embedcreativity/go-ecserial/internal/tui/components"
	"github.com/embedcreativity/go-ecserial/internal/tui/styles"
	"github.com/spf13/cobra"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [data] <port>",
	Short: "Send data to a serial port",
	Long: `Send data to a serial port and optionally wait for a reply.

Data can be provided as:
- Command line argument: ecserial send "Hello World" /dev/ttyUSB0
- From stdin (pipe): echo "test data" | ecserial send /dev/ttyUSB0
- Interactive mode: ecserial send /dev/ttyUSB0 (prompts for input)

With --expect N the command reads up to N reply bytes, giving up after
--timeout. A reply that does not arrive in time exits with status 2 after
printing whatever did arrive.

Example usage:
  ecserial send "AT" /dev/ttyUSB0 --crlf --expect 4
  ecserial send "48656c6c6f" /dev/ttyUSB0 --hex
  ecserial send "ping" /dev/ttyS0 --newline --bytewise`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data, portPath string

		if len(args) == 1 {
			portPath = args[0]
			var err error
			data, err = readInput(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
		} else {
			data = args[0]
			portPath = args[1]
		}

		addNewline, _ := cmd.Flags().GetBool("newline")
		addCRLF, _ := cmd.Flags().GetBool("crlf")
		hexMode, _ := cmd.Flags().GetBool("hex")
		bytewise, _ := cmd.Flags().GetBool("bytewise")
		expect, _ := cmd.Flags().GetInt("expect")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		payload, err := buildPayload(data, hexMode, addNewline, addCRLF)
		if err != nil {
			return err
		}

		return sendData(cmd.OutOrStdout(), portPath, payload, sendOptions{
			bytewise: bytewise,
			expect:   expect,
			timeout:  timeout,
		})
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolP("newline", "n", false, "Add a newline (\\n) to the end of data")
	sendCmd.Flags().Bool("crlf", false, "Add a carriage return and newline (\\r\\n) to the end of data")
	sendCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal (e.g., '48656c6c6f' for 'Hello')")
	sendCmd.Flags().Bool("bytewise", false, "Write one byte per system call")
	sendCmd.Flags().IntP("expect", "e", 0, "Read this many reply bytes after sending")
	sendCmd.Flags().DurationP("timeout", "t", time.Second, "How long to wait for the reply")
}

type sendOptions struct {
	bytewise bool
	expect   int
	timeout  time.Duration
}

// readInput takes data from a pipe, or prompts when stdin is a terminal
func readInput(in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			return promptForData(in, out), nil
		}
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func promptForData(in io.Reader, out io.Writer) string {
	fmt.Fprint(out, styles.InfoStyle.Render("Enter data to send: "))

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}

// buildPayload applies the hex and line ending flags. Hex payloads are sent
// exactly as given.
func buildPayload(data string, hexMode, newline, crlf bool) ([]byte, error) {
	if hexMode {
		payload, err := components.ParseHex(data)
		if err != nil {
			return nil, fmt.Errorf("invalid hex data: %w", err)
		}
		return payload, nil
	}

	switch {
	case crlf:
		data += "\r\n"
	case newline:
		data += "\n"
	}
	if data == "" {
		return nil, errors.New("nothing to send")
	}
	return []byte(data), nil
}

func sendData(out io.Writer, portPath string, payload []byte, opts sendOptions) error {
	fmt.Fprintf(out, "%s Opening %s...\n", styles.InfoStyle.Render("⚡"), portPath)

	port, err := openPort(portPath)
	if err != nil {
		return err
	}
	defer port.Close()

	if opts.expect > 0 {
		// anything already waiting is not a reply to this payload
		if err := port.FlushInput(); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "%s Sending %d bytes...\n", styles.InfoStyle.Render("📤"), len(payload))

	if opts.bytewise {
		for i, b := range payload {
			if err := port.WriteByte(b); err != nil {
				return fmt.Errorf("byte %d of %d: %w", i+1, len(payload), err)
			}
		}
	} else if err := port.WriteBytes(payload); err != nil {
		return err
	}
	if err := port.Drain(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Sent %d bytes\n", styles.SuccessStyle.Render("✓"), len(payload))
	fmt.Fprintf(out, "%s Data: %s\n", styles.InfoStyle.Render("📋"), preview(payload))

	if opts.expect <= 0 {
		return nil
	}

	reply := make([]byte, opts.expect)
	n, err := port.Read(reply, opts.timeout)
	if n > 0 {
		fmt.Fprintf(out, "%s Reply (%d bytes): % X  %s\n",
			styles.SuccessStyle.Render("📥"), n, reply[:n], components.Printable(reply[:n]))
	}
	if errors.Is(err, serial.ErrTimeout) {
		fmt.Fprintf(out, "%s Got %d of %d reply bytes in %v\n",
			styles.WarnStyle.Render("⏱"), n, opts.expect, opts.timeout)
	}
	return err
}

// preview shortens data to something safe to print on one line
func preview(data []byte) string {
	if len(data) > 50 {
		return components.Printable(data[:50]) + "..."
	}
	return components.Printable(data)
}
