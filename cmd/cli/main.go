// Interactive order browser for operators: walks a status partition page by
// page using the cursor pager. Commands: n(ext), p(rev), q(uit).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	internalaws "github.com/promodeagro/packer-workflow/internal/aws"
	"github.com/promodeagro/packer-workflow/internal/orders"
	"github.com/promodeagro/packer-workflow/internal/pagination"
)

func main() {
	status := flag.String("status", orders.StatusUnpacked, "order status to browse (unpacked|packed)")
	pageSize := flag.Int("page-size", 20, "orders per page")
	flag.Parse()

	if *status != orders.StatusUnpacked && *status != orders.StatusPacked {
		log.Fatalf("unknown status %q", *status)
	}
	if *pageSize < 1 {
		*pageSize = 20
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	ordersTable := os.Getenv("ORDERS_TABLE")
	if ordersTable == "" {
		log.Fatal("ORDERS_TABLE is not set")
	}

	ctx := context.Background()
	clients, err := internalaws.NewAWSClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}
	store := orders.NewStore(clients.DynamoDB, ordersTable)
	pager := pagination.New(*status, int32(*pageSize))

	in := bufio.NewScanner(os.Stdin)
	for {
		page, next, err := pager.CurrentPage(ctx, store)
		if err != nil {
			log.Fatalf("load page: %v", err)
		}
		fmt.Printf("\n-- %s orders, page %d (%d shown) --\n", *status, pager.PageNumber(), len(page))
		for _, o := range page {
			line := fmt.Sprintf("%s  created=%s", o.ID, o.CreatedAt.Format("2006-01-02 15:04"))
			if o.PackingSummary != nil {
				line += fmt.Sprintf("  packed %d/%d", o.PackingSummary.Available, o.PackingSummary.Total)
			}
			fmt.Println(line)
		}

		fmt.Print("[n]ext [p]rev [q]uit > ")
		if !in.Scan() {
			return
		}
		switch strings.TrimSpace(in.Text()) {
		case "n":
			if !pager.Advance(next) {
				fmt.Println("end of results")
			}
		case "p":
			if !pager.Retreat() {
				fmt.Println("already at first page")
			}
		case "q":
			return
		}
	}
}
