package model

import "fmt"

// WifiConfig holds the guest WiFi credentials shown to visitors as a QR code.
type WifiConfig struct {
	SSID       string `json:"ssid"`
	Password   string `json:"password"`
	Encryption string `json:"encryption"`
}

// QRPayload renders the WiFi credentials in the standard WIFI: QR format.
// Image rendering stays on the client; this is only the payload string.
func (w WifiConfig) QRPayload() string {
	enc := w.Encryption
	if enc == "" {
		enc = "WPA"
	}
	return fmt.Sprintf("WIFI:T:%s;S:%s;P:%s;;", enc, w.SSID, w.Password)
}

// KioskConfig is the singleton configuration document maintained from the
// admin panel. Writes replace the whole document; there is no partial patch.
//
// Recipient lists may contain empty placeholder entries (the admin form
// renders fixed slots); consumers must filter those before use.
type KioskConfig struct {
	WhatsappNumbers    []string   `json:"whatsappNumbers"`
	Emails             []string   `json:"emails"`
	ParentPickupEmails []string   `json:"parentPickupEmails"`
	Wifi               WifiConfig `json:"wifi"`
	Gmail              string     `json:"gmail"`
	GmailAppPassword   string     `json:"gmailAppPassword"`
	LogoURL            string     `json:"logoUrl"`
}

// Redacted returns a copy safe to hand to any reader: the sender secret is
// blanked. Writes still accept the secret in full.
func (c KioskConfig) Redacted() KioskConfig {
	c.GmailAppPassword = ""
	return c
}
