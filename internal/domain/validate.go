package domain

import (
	"net"
	"net/mail"
	"regexp"
)

var (
	macPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}$`)

	// Input-side voucher format is looser than the generation alphabet:
	// any uppercase alphanumeric in XXXX-XXXX-XXXX groups is accepted and
	// resolved against the store.
	voucherCodePattern = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)
)

func ValidMACAddress(mac string) bool {
	return macPattern.MatchString(mac)
}

func ValidIPAddress(ip string) bool {
	return net.ParseIP(ip) != nil
}

func ValidVoucherCode(code string) bool {
	return voucherCodePattern.MatchString(code)
}

func ValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
