package menu

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	drinksRange = "Напитки!A:D"
	milksRange  = "Молоко!A:A"
	syrupsRange = "Сиропы!A:A"
)

// noMilkMark is how the spreadsheet marks drinks served without milk.
const noMilkMark = "-"

// SheetsSource loads the menu from the shop's Google Sheets document.
// The drinks sheet carries four columns: name, category, milk mark and a
// comma-separated list of offered volumes.
type SheetsSource struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewSheetsSource(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*SheetsSource, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsSource{service: service, spreadsheetID: spreadsheetID}, nil
}

func (s *SheetsSource) Load(ctx context.Context) (*Catalog, error) {
	resp, err := s.service.Spreadsheets.Values.BatchGet(s.spreadsheetID).
		Ranges(drinksRange, milksRange, syrupsRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	if len(resp.ValueRanges) != 3 {
		return nil, fmt.Errorf("unexpected ranges in spreadsheet response: %d", len(resp.ValueRanges))
	}

	drinks, err := parseDrinkRows(resp.ValueRanges[0].Values)
	if err != nil {
		return nil, err
	}
	milks := parseNameColumn(resp.ValueRanges[1].Values)
	syrups := parseNameColumn(resp.ValueRanges[2].Values)
	if len(drinks) == 0 {
		return nil, fmt.Errorf("no drinks found in spreadsheet")
	}
	return NewCatalog(drinks, milks, syrups), nil
}

// parseDrinkRows turns raw sheet rows into typed drinks. The header row is
// skipped; the milk mark and volume list are decided here, once, so the
// rest of the system never re-parses spreadsheet strings.
func parseDrinkRows(rows [][]interface{}) ([]Drink, error) {
	var out []Drink
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 4 {
			continue
		}
		name := strings.TrimSpace(fmt.Sprintf("%v", row[0]))
		if name == "" {
			continue
		}
		milkMark := strings.TrimSpace(fmt.Sprintf("%v", row[2]))
		d := Drink{
			Name: name,
			Attributes: DrinkAttributes{
				Category:       strings.TrimSpace(fmt.Sprintf("%v", row[1])),
				MilkCompatible: milkMark != noMilkMark,
				Volumes:        splitVolumes(fmt.Sprintf("%v", row[3])),
			},
		}
		if len(d.Attributes.Volumes) == 0 {
			return nil, fmt.Errorf("drink %q has no volumes", name)
		}
		out = append(out, d)
	}
	return out, nil
}

func parseNameColumn(rows [][]interface{}) []string {
	var out []string
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) == 0 {
			continue
		}
		v := strings.TrimSpace(fmt.Sprintf("%v", rows[i][0]))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func splitVolumes(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
