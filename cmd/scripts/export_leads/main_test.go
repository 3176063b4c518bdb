package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories/memory"
	"github.com/matryer/is"
)

func TestExportLeads(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	store := memory.NewStore(memory.NewDB())

	is.NoErr(store.Campaigns.Create(ctx, &models.Campaign{ID: "C1campaign0000000001", Title: "Spring", IsActive: true}))
	is.NoErr(store.Participants.Create(ctx, &models.Participant{
		ID: "P1participant0000001", CampaignID: "C1campaign0000000001",
		FullName: "Dana Levi", Phone: "0501234567", Tickets: 1, JoinedAt: time.Now(),
	}))

	var buf bytes.Buffer
	n, err := exportLeads(ctx, store, "C1campaign0000000001", "csv", &buf)
	is.NoErr(err)
	is.Equal(n, 1)
	is.True(strings.Contains(buf.String(), "Dana Levi"))

	buf.Reset()
	_, err = exportLeads(ctx, store, "C1campaign0000000001", "vcf", &buf)
	is.NoErr(err)
	is.True(strings.Contains(buf.String(), "BEGIN:VCARD"))

	_, err = exportLeads(ctx, store, "C1campaign0000000001", "xml", &buf)
	is.True(err != nil)

	_, err = exportLeads(ctx, store, "missing", "csv", &buf)
	is.True(err != nil)
}
