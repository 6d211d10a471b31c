package main

import (
	"context"
	"fmt"
	"log"

	connector "github.com/schemafx/connector-google"
	"github.com/schemafx/connector-google/google"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Build the authenticated client bundle from a service account key
	clients, err := google.NewClientsWithJSONKeyFile(ctx, "./service-account.json")
	if err != nil {
		return fmt.Errorf("failed to create clients: %w", err)
	}

	// Assemble the connector with the default handler set
	conn := google.NewConnector(clients, nil)

	// Infer the schema of a sheet inside a spreadsheet
	table, err := conn.GetTable(ctx, []string{connector.ResourceSpreadsheet, "your-spreadsheet-id", "users"})
	if err != nil {
		return fmt.Errorf("failed to get table: %w", err)
	}
	fmt.Printf("table %q with %d fields\n", table.Name, len(table.Fields))

	// Append a row; unseen field names become new trailing columns
	err = conn.AddRow(ctx, *table, connector.Row{
		"id":    "42",
		"name":  "John Doe",
		"email": "john@example.com",
	})
	if err != nil {
		return fmt.Errorf("failed to add row: %w", err)
	}

	// Read the typed rows back
	result, err := conn.GetData(ctx, *table)
	if err != nil {
		return fmt.Errorf("failed to get data: %w", err)
	}
	for _, row := range result.Rows {
		fmt.Println(row)
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning: row %d field %s: %s\n", w.Row, w.Field, w.Message)
	}

	// Update by key; an unmatched key is a silent no-op
	err = conn.UpdateRow(ctx, *table,
		connector.Key{"id": "42"},
		connector.Row{"email": "john.doe@example.com"},
	)
	if err != nil {
		return fmt.Errorf("failed to update row: %w", err)
	}

	return nil
}
