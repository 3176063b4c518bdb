package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
)

// ParticipantCSVHeader is the header row of participant exports
var ParticipantCSVHeader = []string{"full name", "email", "phone", "joined at", "saved contact", "shared"}

// csvBOM lets spreadsheet tools detect UTF-8 names
const csvBOM = "\ufeff"

// WriteParticipantsCSV writes participants as CSV, prefixed with a UTF-8 byte order mark
func WriteParticipantsCSV(w io.Writer, participants []*models.Participant) error {
	if _, err := io.WriteString(w, csvBOM); err != nil {
		return fmt.Errorf("failed to write csv bom: %w", err)
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(ParticipantCSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, p := range participants {
		row := []string{
			p.FullName,
			p.Email,
			p.Phone,
			p.JoinedAt.UTC().Format(time.RFC3339),
			yesNo(p.Tasks.SavedContact),
			yesNo(p.Tasks.SharedWhatsApp),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteParticipantsVCF writes one vCard per participant
func WriteParticipantsVCF(w io.Writer, participants []*models.Participant, organization string) error {
	cards := make([]string, 0, len(participants))
	for _, p := range participants {
		cards = append(cards, VCard(p.FullName, p.Phone, organization))
	}
	_, err := io.WriteString(w, strings.Join(cards, "\r\n"))
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
