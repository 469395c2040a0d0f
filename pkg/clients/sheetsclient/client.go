package sheetsclient

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jakechorley/publication-allocator/internal/config"
	"github.com/jakechorley/publication-allocator/pkg/utils"
)

// Client wraps the Google Sheets API client
type Client struct {
	service *sheets.Service
	ctx     context.Context
}

// NewClient creates a Sheets client, running the OAuth flow if no stored token is usable.
// Tokens are persisted per environment.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, env string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig, env)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
		ctx:     ctx,
	}, nil
}

// HasSheet reports whether the spreadsheet already has a tab with the given title
func (c *Client) HasSheet(spreadsheetID, title string) (bool, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Context(c.ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return true, nil
		}
	}
	return false, nil
}

// CreateSheet creates a new sheet/tab in the spreadsheet
func (c *Client) CreateSheet(spreadsheetID, sheetTitle string) (int64, error) {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sheetTitle},
			},
		}},
	}

	resp, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(c.ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("unexpected response from create sheet")
	}

	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// ClearSheet removes every value from a tab
func (c *Client) ClearSheet(spreadsheetID, sheetTitle string) error {
	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, sheetTitle, &sheets.ClearValuesRequest{}).
		Context(c.ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet %q: %w", sheetTitle, err)
	}
	return nil
}

// WriteRows overwrites a tab starting at A1
func (c *Client) WriteRows(spreadsheetID, sheetTitle string, rows [][]interface{}) error {
	_, err := c.service.Spreadsheets.Values.Update(
		spreadsheetID,
		fmt.Sprintf("%s!A1", sheetTitle),
		&sheets.ValueRange{Values: rows},
	).ValueInputOption("RAW").Context(c.ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write rows to %q: %w", sheetTitle, err)
	}
	return nil
}
