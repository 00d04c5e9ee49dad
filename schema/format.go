package schema

import (
	"fmt"
	"net"
	"net/netip"
	"strings"

	imageref "github.com/novln/docker-parser"
)

// Format is a string valued built in type with a validated syntax.
type Format string

const (
	FormatIP      Format = "IP"
	FormatMAC     Format = "MAC"
	FormatCIDR    Format = "CIDR"
	FormatIPRange Format = "IP_Range"
	FormatIPPort  Format = "IP_Port"
	FormatImage   Format = "image"
)

var formats = map[Format]func(string) error{
	FormatIP:      checkIP,
	FormatMAC:     checkMAC,
	FormatCIDR:    checkCIDR,
	FormatIPRange: checkIPRange,
	FormatIPPort:  checkIPPort,
	FormatImage:   checkImage,
}

// Check validates s against the format.
func (f Format) Check(s string) error {
	check, ok := formats[f]
	if !ok {
		return fmt.Errorf("unknown format %q", string(f))
	}
	if strings.ContainsAny(s, " \t\n") {
		return fmt.Errorf("%s values may not have a blank: %q", f, s)
	}
	return check(s)
}

func checkIP(s string) error {
	if _, err := netip.ParseAddr(s); err != nil {
		return fmt.Errorf("%q is not a valid IP address", s)
	}
	return nil
}

func checkMAC(s string) error {
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 || strings.Count(s, ":") != 5 {
		return fmt.Errorf("%q is not a valid MAC address", s)
	}
	return nil
}

func checkCIDR(s string) error {
	if _, err := netip.ParsePrefix(s); err != nil {
		return fmt.Errorf("%q is not a valid CIDR", s)
	}
	return nil
}

// checkIPRange accepts a single address or first~last with first < last.
func checkIPRange(s string) error {
	first, last, ok := strings.Cut(s, "~")
	a, err := netip.ParseAddr(first)
	if err != nil {
		return fmt.Errorf("%q is not a valid IP range", s)
	}
	if !ok {
		return nil
	}
	b, err := netip.ParseAddr(last)
	if err != nil || a.Is4() != b.Is4() {
		return fmt.Errorf("%q is not a valid IP range", s)
	}
	if !a.Less(b) {
		return fmt.Errorf("the first IP must be less than the last IP in %q", s)
	}
	return nil
}

func checkIPPort(s string) error {
	if _, err := netip.ParseAddrPort(s); err != nil {
		return fmt.Errorf("%q is not a valid IP and port", s)
	}
	return nil
}

func checkImage(s string) error {
	if _, err := imageref.Parse(s); err != nil {
		return fmt.Errorf("%q is not a valid image reference: %w", s, err)
	}
	return nil
}
