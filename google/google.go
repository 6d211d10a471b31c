// Package google builds the authenticated Drive and Sheets client bundle
// and assembles a connector with the default handler set. This is the only
// package that consults the process environment; the core handlers receive
// ready-to-use clients and explicit configuration.
package google

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	connector "github.com/schemafx/connector-google"
	"github.com/schemafx/connector-google/handlers/jsonfile"
	"github.com/schemafx/connector-google/handlers/sheetgrid"
	"github.com/schemafx/connector-google/handlers/textfile"
	"github.com/schemafx/connector-google/handlers/xlsxfile"
)

// Clients bundles the authenticated Google API services the handlers share.
type Clients struct {
	Drive  *drive.Service
	Sheets *sheets.Service
}

// NewClients creates the client bundle with the provided options.
func NewClients(ctx context.Context, opts ...option.ClientOption) (*Clients, error) {
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	sheetsService, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Clients{
		Drive:  driveService,
		Sheets: sheetsService,
	}, nil
}

// Config holds configuration for the default connector assembly.
type Config struct {
	// Infer overrides the default schema inference for every handler.
	Infer connector.InferFunc

	// MaxJSONBytes overrides the JSON handler's document size guard.
	MaxJSONBytes int
}

// NewConnector assembles a connector with the default handlers registered:
// spreadsheet, csv, json and xlsx.
func NewConnector(clients *Clients, config *Config) *Connector {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}

	files := connector.NewDriveStore(clients.Drive)

	c := connector.New()
	c.Register(connector.ResourceSpreadsheet, sheetgrid.NewService(clients.Sheets, &sheetgrid.Config{
		Infer: cfg.Infer,
	}))
	c.Register(connector.ResourceCSV, textfile.New(files, &textfile.Config{
		Infer: cfg.Infer,
	}))
	c.Register(connector.ResourceJSON, jsonfile.New(files, &jsonfile.Config{
		Infer:    cfg.Infer,
		MaxBytes: cfg.MaxJSONBytes,
	}))
	c.Register(connector.ResourceXLSX, xlsxfile.New(files, &xlsxfile.Config{
		Infer: cfg.Infer,
	}))
	return &Connector{Connector: c, Clients: clients}
}

// Connector is the assembled dispatcher together with the client bundle it
// was built from.
type Connector struct {
	*connector.Connector
	Clients *Clients
}
