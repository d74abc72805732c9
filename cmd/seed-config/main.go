package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/schoolgate/visitdesk-backend/internal/config"
	"github.com/schoolgate/visitdesk-backend/internal/database"
	"github.com/schoolgate/visitdesk-backend/internal/logger"
	"github.com/schoolgate/visitdesk-backend/internal/model"
	"github.com/schoolgate/visitdesk-backend/internal/repository"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	configRepo := repository.NewConfigRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Seed Kiosk Configuration ===")

	// Gmail sender address
	fmt.Print("Enter Gmail sender address: ")
	gmail, _ := reader.ReadString('\n')
	gmail = strings.TrimSpace(gmail)
	if gmail == "" {
		fmt.Println("Error: sender address is required")
		return
	}

	// Gmail app password (no echo)
	fmt.Print("Enter Gmail app password: ")
	byteSecret, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading app password")
		return
	}
	appPassword := string(byteSecret)
	fmt.Println() // Newline after hidden input
	if appPassword == "" {
		fmt.Println("Error: app password is required")
		return
	}

	// Default notification recipients
	fmt.Print("Enter notification emails (comma separated): ")
	rawEmails, _ := reader.ReadString('\n')
	emails := splitList(rawEmails)
	if len(emails) == 0 {
		fmt.Println("Error: at least one notification email is required")
		return
	}

	// Parent pickup recipients (optional)
	fmt.Print("Enter parent pickup emails (comma separated, optional): ")
	rawPickup, _ := reader.ReadString('\n')
	pickupEmails := splitList(rawPickup)

	// WhatsApp numbers (optional, stub channel)
	fmt.Print("Enter WhatsApp numbers (comma separated, optional): ")
	rawNumbers, _ := reader.ReadString('\n')
	numbers := splitList(rawNumbers)

	// Guest WiFi (optional)
	fmt.Print("Enter guest WiFi SSID (optional): ")
	ssid, _ := reader.ReadString('\n')
	ssid = strings.TrimSpace(ssid)

	wifiPassword := ""
	if ssid != "" {
		fmt.Print("Enter guest WiFi password: ")
		p, _ := reader.ReadString('\n')
		wifiPassword = strings.TrimSpace(p)
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	doc := model.KioskConfig{
		WhatsappNumbers:    numbers,
		Emails:             emails,
		ParentPickupEmails: pickupEmails,
		Wifi: model.WifiConfig{
			SSID:       ssid,
			Password:   wifiPassword,
			Encryption: "WPA",
		},
		Gmail:            gmail,
		GmailAppPassword: appPassword,
	}

	if err := configRepo.Replace(ctx, doc); err != nil {
		log.Fatal().Err(err).Msg("Failed to write kiosk configuration")
	}

	fmt.Printf("\nSuccess! Kiosk configuration seeded with %d recipient(s)\n", len(emails))
}

func splitList(raw string) []string {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
