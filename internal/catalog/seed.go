package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"reelog/internal/store"
)

// Header aliases carried over from older exports of the seed file. Date and
// Content_Rating are tolerated but unused.
var headerAliases = map[string]string{
	"Data":               "Date",
	"Nudity, violence..": "Content_Rating",
}

// Seed loads the catalog from a CSV file when the catalog table is empty.
// A missing seed file is not an error; the bot simply starts with an empty
// catalog. Returns the number of rows inserted.
func Seed(ctx context.Context, st *store.Store, path string) (int, error) {
	count, err := st.CountEntries(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()

	entries, err := readSeedRows(file)
	if err != nil {
		return 0, fmt.Errorf("read seed file %s: %w", path, err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	if err := st.BulkInsertEntries(ctx, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func readSeedRows(r io.Reader) ([]store.CatalogEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if canonical, ok := headerAliases[name]; ok {
			name = canonical
		}
		columns[name] = i
	}
	if _, ok := columns["Name"]; !ok {
		return nil, errors.New("seed file missing Name column")
	}

	var entries []store.CatalogEntry
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row: %w", err)
		}

		name := strings.TrimSpace(field(record, columns, "Name"))
		if name == "" {
			continue
		}

		entry := store.CatalogEntry{
			Name:        name,
			Type:        strings.TrimSpace(field(record, columns, "Type")),
			Genre:       strings.TrimSpace(field(record, columns, "Genre")),
			Certificate: strings.TrimSpace(field(record, columns, "Certificate")),
			IMDBRate:    parseFloat(field(record, columns, "Rate")),
			Votes:       parseInt(field(record, columns, "Votes")),
			Episodes:    parseEpisodes(field(record, columns, "Episodes")),
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func field(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func parseFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func parseInt(raw string) *int64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if f, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
			v := int64(f)
			return &v
		}
		return nil
	}
	return &value
}

// parseEpisodes defaults to 1 so films count as a single episode.
func parseEpisodes(raw string) *int64 {
	if value := parseInt(raw); value != nil {
		return value
	}
	one := int64(1)
	return &one
}
