package repository

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"subscriber-tracker/internal/model"
)

// Columns written per join, matching the sheet layout:
// date DD.MM.YYYY | time HH:MM:SS | user_id | full_name | username.
const (
	sheetRange    = "A:E"
	sheetDateTime = "02.01.2006 15:04:05"
)

// SheetStore mirrors the join log into a Google Sheet, one row per join.
// Bad credentials or an unreachable spreadsheet degrade to memory-only
// operation, same as the other backends.
type SheetStore struct {
	memoryLog
	svc           *sheets.Service
	spreadsheetID string
	loc           *time.Location
	openErr       error
}

// NewSheetStore authenticates with a service-account key and reads all
// existing rows back into memory. Any failure on this path is recoverable:
// the store starts empty and reports the reason on Append and Ping.
func NewSheetStore(ctx context.Context, credsJSON []byte, spreadsheetID string, loc *time.Location) *SheetStore {
	s := &SheetStore{spreadsheetID: spreadsheetID, loc: loc}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		log.Printf("[warn] connect to sheets: %v, continuing without persistence", err)
		s.openErr = err
		return s
	}
	s.svc = svc

	resp, err := svc.Spreadsheets.Values.Get(spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		log.Printf("[warn] load sheet %s: %v, starting empty", spreadsheetID, err)
		return s
	}
	for _, row := range resp.Values {
		rec, ok := recordFromRow(row, loc)
		if !ok {
			continue
		}
		s.records = append(s.records, rec)
	}
	return s
}

func (s *SheetStore) Append(ctx context.Context, rec model.JoinRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)

	if s.svc == nil {
		return fmt.Errorf("sheet unavailable: %w", s.openErr)
	}

	ts, err := rec.Time()
	if err != nil {
		ts = time.Now()
	}
	ts = ts.In(s.loc)

	username := rec.Username
	if username != "" {
		username = "@" + username
	}
	vr := &sheets.ValueRange{
		Values: [][]interface{}{{
			ts.Format("02.01.2006"),
			ts.Format("15:04:05"),
			strconv.FormatInt(rec.UserID, 10),
			rec.FullName,
			username,
		}},
	}
	_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, sheetRange, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append sheet row: %w", err)
	}
	return nil
}

func (s *SheetStore) Ping(ctx context.Context) error {
	if s.svc == nil {
		return fmt.Errorf("sheet unavailable: %w", s.openErr)
	}
	_, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, "A1:A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read sheet: %w", err)
	}
	return nil
}

// recordFromRow rebuilds a JoinRecord from a sheet row. Rows that do not
// look like join entries (headers, stray notes) are skipped.
func recordFromRow(row []interface{}, loc *time.Location) (model.JoinRecord, bool) {
	if len(row) < 4 {
		return model.JoinRecord{}, false
	}

	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		s, _ := row[i].(string)
		return strings.TrimSpace(s)
	}

	ts, err := time.ParseInLocation(sheetDateTime, cell(0)+" "+cell(1), loc)
	if err != nil {
		return model.JoinRecord{}, false
	}
	userID, err := strconv.ParseInt(cell(2), 10, 64)
	if err != nil {
		return model.JoinRecord{}, false
	}

	return model.JoinRecord{
		TsISO:    ts.Format(time.RFC3339),
		UserID:   userID,
		Username: strings.TrimPrefix(cell(4), "@"),
		FullName: cell(3),
	}, true
}
