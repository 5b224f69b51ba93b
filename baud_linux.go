package serial

import (
	"sort"

	"golang.org/x/sys/unix"
)

// baudSpeeds maps bits per second to the termios speed encoding
var baudSpeeds = map[int]uint32{
	0:      unix.B0,
	50:     unix.B50,
	110:    unix.B110,
	134:    unix.B134,
	150:    unix.B150,
	200:    unix.B200,
	300:    unix.B300,
	600:    unix.B600,
	1200:   unix.B1200,
	1800:   unix.B1800,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
}

var speedBauds = func() map[uint32]int {
	m := make(map[uint32]int, len(baudSpeeds))
	for rate, speed := range baudSpeeds {
		m[speed] = rate
	}
	return m
}()

// SpeedForBaud returns the termios encoding for rate
func SpeedForBaud(rate int) (uint32, error) {
	speed, ok := baudSpeeds[rate]
	if !ok {
		return unix.B0, ErrUnsupportedBaudRate
	}
	return speed, nil
}

// BaudForSpeed inverts SpeedForBaud. Unknown encodings return -1.
func BaudForSpeed(speed uint32) (int, error) {
	rate, ok := speedBauds[speed]
	if !ok {
		return -1, ErrUnsupportedBaudRate
	}
	return rate, nil
}

// SupportedBaudRates lists the rates SpeedForBaud accepts, ascending
func SupportedBaudRates() []int {
	rates := make([]int, 0, len(baudSpeeds))
	for rate := range baudSpeeds {
		rates = append(rates, rate)
	}
	sort.Ints(rates)
	return rates
}
