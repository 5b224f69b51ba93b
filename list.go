package serial

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	devDir   = "/dev"
	sysTTY   = "/sys/class/tty"
	ttyNames = regexp.MustCompile(`^tty(USB|ACM|S|AMA|mxc|O|SAC|THS)\d+$`)
)

// ListPorts returns the serial devices under /dev, sorted. Virtual consoles
// and pseudo-terminals are not listed.
func ListPorts() ([]string, error) {
	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil, err
	}

	var ports []string
	for _, entry := range entries {
		if !ttyNames.MatchString(entry.Name()) {
			continue
		}
		path := filepath.Join(devDir, entry.Name())
		if isCharacterDevice(path) {
			ports = append(ports, path)
		}
	}

	sort.Strings(ports)
	return ports, nil
}

func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// PortInfo describes a serial device node
type PortInfo struct {
	Name        string
	Path        string
	Description string
	Driver      string // kernel driver bound to the device, if known
}

// GetPortInfo returns what /dev and sysfs say about portPath
func GetPortInfo(portPath string) (*PortInfo, error) {
	if !isCharacterDevice(portPath) {
		return nil, opError("info", portPath, ErrDeviceNotFound, nil)
	}

	name := filepath.Base(portPath)
	return &PortInfo{
		Name:        name,
		Path:        portPath,
		Description: getPortDescription(name),
		Driver:      ttyDriver(name),
	}, nil
}

func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	default:
		return "Serial Port"
	}
}

// ttyDriver resolves /sys/class/tty/<name>/device/driver
func ttyDriver(name string) string {
	target, err := filepath.EvalSymlinks(filepath.Join(sysTTY, name, "device", "driver"))
	if err != nil {
		return ""
	}
	return filepath.Base(target)
}
