package sheetgrid

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// ValueInput selects how the Sheets backend interprets written values.
type ValueInput string

const (
	// InputRaw stores values without interpretation. Used for header
	// writes, where a column name must stay literal text.
	InputRaw ValueInput = "RAW"

	// InputUserEntered lets the backend apply its own value typing and
	// formatting, as if the value had been typed into the grid.
	InputUserEntered ValueInput = "USER_ENTERED"
)

// Client is the range-addressed boundary to a spreadsheet service. The
// production implementation wraps sheets.Service; tests substitute a
// recording fake.
type Client interface {
	Values(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
	Update(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}, input ValueInput) error
	Append(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error
	Clear(ctx context.Context, spreadsheetID, clearRange string) error
	Title(ctx context.Context, spreadsheetID string) (string, error)
}

type apiClient struct {
	service *sheets.Service
}

// NewClient wraps a sheets.Service in the Client interface.
func NewClient(service *sheets.Service) Client {
	return &apiClient{service: service}
}

func (c *apiClient) Values(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", readRange, err)
	}
	return resp.Values, nil
}

func (c *apiClient) Update(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}, input ValueInput) error {
	vr := &sheets.ValueRange{Values: values}
	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, writeRange, vr).
		ValueInputOption(string(input)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range %s: %w", writeRange, err)
	}
	return nil
}

func (c *apiClient) Append(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	vr := &sheets.ValueRange{Values: values}
	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, writeRange, vr).
		ValueInputOption(string(InputUserEntered)).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to range %s: %w", writeRange, err)
	}
	return nil
}

func (c *apiClient) Clear(ctx context.Context, spreadsheetID, clearRange string) error {
	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear range %s: %w", clearRange, err)
	}
	return nil
}

func (c *apiClient) Title(ctx context.Context, spreadsheetID string) (string, error) {
	resp, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}
	if resp.Properties == nil {
		return "", nil
	}
	return resp.Properties.Title, nil
}
