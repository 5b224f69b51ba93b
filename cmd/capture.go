/*
Copyright © 2025 EmbedCreativity
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/embedcreativity/go-ecserial"
	"github.com/spf13/cobra"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture <port> <output-file>",
	Short: "Capture serial data to a file",
	Long: `Capture incoming serial data to a file for later parsing.

Reads raw bytes from the specified serial port and appends them to the
output file. Bytes are flushed to the file whenever the buffer fills or
--flush passes without it filling. Runs until interrupted (Ctrl+C).

Example usage:
  ecserial capture /dev/ttyUSB0 data.log
  ecserial capture /dev/ttyUSB0 output.bin --baud 9600
  ecserial capture /dev/ttyUSB0 capture.log --console`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		portPath := args[0]
		outputPath := args[1]

		bufferSize, _ := cmd.Flags().GetInt("buffer")
		flush, _ := cmd.Flags().GetDuration("flush")
		showConsole, _ := cmd.Flags().GetBool("console")
		if bufferSize <= 0 {
			return fmt.Errorf("buffer size must be positive, got %d", bufferSize)
		}
		if flush <= 0 {
			return fmt.Errorf("flush interval must be positive, got %v", flush)
		}

		port, err := openPort(portPath)
		if err != nil {
			return err
		}
		defer port.Close()

		file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open output file: %w", err)
		}
		defer file.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		go func() {
			select {
			case <-sigChan:
				fmt.Fprintf(cmd.ErrOrStderr(), "\nReceived interrupt signal, shutting down...\n")
				cancel()
			case <-ctx.Done():
			}
		}()

		fmt.Fprintf(cmd.ErrOrStderr(), "Capturing data from %s to %s\n", portPath, outputPath)
		fmt.Fprintf(cmd.ErrOrStderr(), "Press Ctrl+C to stop\n\n")

		var console io.Writer
		if showConsole {
			console = cmd.OutOrStdout()
		}

		start := time.Now()
		written, err := runCapture(ctx, port, file, console, bufferSize, flush)
		fmt.Fprintf(cmd.ErrOrStderr(), "\nCapture complete: %d bytes written in %v\n",
			written, time.Since(start).Round(time.Millisecond))
		return err
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().Int("buffer", 4096, "Read buffer size")
	captureCmd.Flags().Duration("flush", 100*time.Millisecond, "Longest time bytes wait in the buffer")
	captureCmd.Flags().BoolP("console", "c", false, "Display incoming data on console while capturing")
}

// runCapture copies from port to w until ctx is done. Each ReadContext call
// gets its own deadline so a quiet line still flushes partial buffers.
func runCapture(ctx context.Context, port serial.Port, w, console io.Writer, bufferSize int, flush time.Duration) (int64, error) {
	buffer := make([]byte, bufferSize)
	var total int64

	for ctx.Err() == nil {
		chunkCtx, cancel := context.WithTimeout(ctx, flush)
		n, err := port.ReadContext(chunkCtx, buffer)
		cancel()

		if n > 0 {
			written, werr := w.Write(buffer[:n])
			total += int64(written)
			if werr != nil {
				return total, fmt.Errorf("write error: %w", werr)
			}
			if console != nil {
				console.Write(buffer[:n])
			}
		}

		if err == nil || errors.Is(err, serial.ErrTimeout) {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		return total, fmt.Errorf("read error: %w", err)
	}
	return total, nil
}
