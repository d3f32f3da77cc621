package main

import (
	"fmt"
	"ledger-app/config"
	"ledger-app/repositories"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

// Standalone low-stock digest. Polls the branch stock table and mails a
// summary whenever any branch sits at or below its minimum level. Reads
// only; the ledger service never depends on this binary.

func main() {
	config.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	reports := repositories.NewReportRepository(db)

	interval := 6 * time.Hour
	if v := os.Getenv("ALERT_INTERVAL_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			interval = time.Duration(minutes) * time.Minute
		}
	}

	fmt.Println("🚀 Low-stock processor running, interval:", interval)

	for {
		sendLowStockDigest(reports)
		time.Sleep(interval)
	}
}

func sendLowStockDigest(reports *repositories.ReportRepository) {
	rows, err := reports.LowStock(0)
	if err != nil {
		log.Println("❌ Failed to query low stock:", err)
		return
	}

	if len(rows) == 0 {
		fmt.Println("✅ No low stock items")
		return
	}

	var b strings.Builder
	b.WriteString("<html><body><h3>Low stock report</h3><table border=\"1\" cellpadding=\"4\">")
	b.WriteString("<tr><th>Item</th><th>Branch</th><th>Qty</th><th>Min Level</th></tr>")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("<tr><td>%s - %s</td><td>%s</td><td>%d</td><td>%d</td></tr>",
			r.ItemCode, r.ItemName, r.BranchName, r.Quantity, r.MinStockLevel))
	}
	b.WriteString("</table><p>This is an auto-generated email. Please do not reply.</p></body></html>")

	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	senderEmail := os.Getenv("SMTP_SENDER")
	senderPassword := os.Getenv("SMTP_PASSWORD")
	toEmails := strings.Split(os.Getenv("ALERT_RECIPIENTS"), ",")

	if smtpHost == "" || senderEmail == "" || len(toEmails) == 0 || toEmails[0] == "" {
		log.Println("⚠️ SMTP not configured, skipping email. Items below minimum:", len(rows))
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", senderEmail)
	msg.SetHeader("To", toEmails...)
	msg.SetHeader("Subject", fmt.Sprintf("📦 Low stock alert: %d item(s) below minimum", len(rows)))
	msg.SetBody("text/html", b.String())

	dialer := gomail.NewDialer(smtpHost, smtpPort, senderEmail, senderPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		fmt.Println("❌ Failed to send email:", err)
		return
	}

	fmt.Println("✅ Low stock digest sent to:", toEmails)
}
