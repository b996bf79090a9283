package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/carbonmatch-backend/internal/app"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/dbctx"
)

// process_pending runs one enrichment pass without the HTTP server, for cron
// style scheduling.
func main() {
	var dryRun bool
	flag.BoolVar(&dryRun, "dry-run", false, "list selectable records without contacting the match API")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()

	if dryRun {
		pending, err := application.Repos.LineItem.ListPending(dbctx.Context{Ctx: ctx})
		if err != nil {
			fmt.Printf("list pending: %v\n", err)
			os.Exit(1)
		}
		for _, item := range pending {
			fmt.Printf("%d\t%s\t%d\t%s\n", item.ID, item.DeliveryNoteRefNo, item.ItemNo, item.ProductDescription)
		}
		fmt.Printf("pending=%d\n", len(pending))
		return
	}

	summary, err := application.Services.MatchEnrich.ProcessPending(ctx)
	if err != nil {
		fmt.Printf("process pending: %v\n", err)
		os.Exit(1)
	}
	summary.Records = nil
	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))
}
