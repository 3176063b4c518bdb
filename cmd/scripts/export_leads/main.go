// Command export_leads writes a campaign's participants as CSV using the server's store configuration.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ArowuTest/viral-lottery-backend/internal/config"
	"github.com/ArowuTest/viral-lottery-backend/internal/repositories"
	"github.com/ArowuTest/viral-lottery-backend/internal/storage"
	"github.com/ArowuTest/viral-lottery-backend/internal/utils"
	"github.com/ArowuTest/viral-lottery-backend/pkg/logx"
	"github.com/spf13/pflag"
)

func main() {
	campaignID := pflag.StringP("campaign", "c", "", "campaign id (required)")
	output := pflag.StringP("output", "o", "", "output file, stdout when empty")
	format := pflag.StringP("format", "f", "csv", "csv or vcf")
	pflag.Parse()

	if *campaignID == "" {
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logx.L().Fatalw("Failed to load configuration", "error", err)
	}
	logx.Init(cfg.LogLevel)
	defer logx.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		logx.L().Fatalw("Failed to open store", "driver", cfg.Store.Driver, "error", err)
	}
	defer closeStore()

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			logx.L().Fatalw("Failed to create output file", "path", *output, "error", err)
		}
		defer f.Close()
		w = f
	}

	n, err := exportLeads(ctx, store, *campaignID, *format, w)
	if err != nil {
		logx.L().Fatalw("Export failed", "campaignId", *campaignID, "error", err)
	}
	logx.L().Infow("Export complete", "campaignId", *campaignID, "participants", n, "format", *format)
}

// exportLeads writes every participant of the campaign in the requested format
func exportLeads(ctx context.Context, store *repositories.Store, campaignID, format string, w io.Writer) (int, error) {
	campaign, err := store.Campaigns.FindByID(ctx, campaignID)
	if err != nil {
		return 0, fmt.Errorf("failed to load campaign: %w", err)
	}
	participants, err := store.Participants.FindByCampaign(ctx, campaign.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to load participants: %w", err)
	}

	switch format {
	case "csv":
		err = utils.WriteParticipantsCSV(w, participants)
	case "vcf":
		err = utils.WriteParticipantsVCF(w, participants, campaign.Title)
	default:
		return 0, fmt.Errorf("unknown format %q", format)
	}
	return len(participants), err
}
