// Package songlist parses the CSV query lists that drive a songfetch run.
//
// A list is a CSV file whose header row names at least the 歌曲名 (title) and
// 歌手 (artist) columns, in any position. Every following line becomes one
// query row; lines with an empty title are skipped.
package songlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fyxsky/songfetch/internal/model"
)

// Column headers recognized in the input CSV.
const (
	ColumnTitle  = "歌曲名"
	ColumnArtist = "歌手"
)

// ErrMissingColumns is returned when the CSV header lacks a required column.
var ErrMissingColumns = errors.New("songlist: CSV 缺少列：歌曲名、歌手")

// Parse reads a CSV query list and returns the pending query rows.
//
// The header row is required. A UTF-8 BOM on the first header cell is
// stripped. Rows with an empty title are dropped; an artist may be empty.
func Parse(r io.Reader) ([]model.QueryRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrMissingColumns
		}
		return nil, fmt.Errorf("songlist: reading header: %w", err)
	}

	titleIdx, artistIdx := -1, -1
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\uFEFF"))
		switch col {
		case ColumnTitle:
			titleIdx = i
		case ColumnArtist:
			artistIdx = i
		}
	}
	if titleIdx < 0 || artistIdx < 0 {
		return nil, ErrMissingColumns
	}

	var rows []model.QueryRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("songlist: reading rows: %w", err)
		}

		title := field(record, titleIdx)
		if title == "" {
			continue
		}
		rows = append(rows, model.QueryRow{
			Index:  len(rows),
			Title:  title,
			Artist: field(record, artistIdx),
			Status: model.StatusPending,
		})
	}
	return rows, nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
