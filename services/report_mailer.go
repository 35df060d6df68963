// services/report_mailer.go - mail delivery of generated export reports
package services

import (
	"fmt"
	"strings"

	"fund-admin-gateway/config"
	"fund-admin-gateway/utils"
)

// MailReport sends a generated report file to the recipients. Invalid
// addresses are rejected before dialing.
func MailReport(to []string, yearLabel, attachmentPath string, rowCount int) error {
	recipients := make([]string, 0, len(to))
	for _, addr := range to {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		if !utils.ValidateEmail(addr) {
			return fmt.Errorf("invalid recipient address: %s", addr)
		}
		recipients = append(recipients, addr)
	}
	if len(recipients) == 0 {
		return nil
	}

	if yearLabel == "" {
		yearLabel = "ทุกปีงบประมาณ"
	}
	subject := fmt.Sprintf("รายงานคำร้องทุนวิจัย (%s)", yearLabel)
	body := fmt.Sprintf(
		"<p>รายงานคำร้องทุนวิจัยประจำ %s</p><p>จำนวน %d รายการ (ไฟล์แนบ)</p>",
		yearLabel, rowCount,
	)

	return config.SendMailWithAttachments(recipients, subject, body, []string{attachmentPath})
}
