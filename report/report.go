package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"lyrics-visualizer/analysis"
)

const (
	FormatCSV  = "csv"
	FormatText = "txt"
)

var csvHeader = []string{"Word", "Frequency"}

// WriteCSV writes a Word,Frequency header followed by one row per entry, in order.
func WriteCSV(w io.Writer, entries []analysis.WordCount) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("error writing record to CSV: %w", err)
	}
	for _, e := range entries {
		if err := writer.Write([]string{e.Word, strconv.Itoa(e.Count)}); err != nil {
			return fmt.Errorf("error writing record to CSV: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing CSV writer: %w", err)
	}
	return nil
}

// ReadCSV parses output of WriteCSV.
func ReadCSV(r io.Reader) ([]analysis.WordCount, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty CSV")
	}
	if err != nil {
		return nil, err
	}
	if header[0] != csvHeader[0] || header[1] != csvHeader[1] {
		return nil, fmt.Errorf("unexpected CSV header %q", header)
	}

	var entries []analysis.WordCount
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		count, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("invalid frequency for %q: %w", record[0], err)
		}
		entries = append(entries, analysis.WordCount{Word: record[0], Count: count})
	}
	return entries, nil
}

// WriteText writes one "word - count" line per entry.
func WriteText(w io.Writer, entries []analysis.WordCount) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s - %d\n", e.Word, e.Count); err != nil {
			return err
		}
	}
	return nil
}

// Save writes entries to dir/name.csv or dir/name.txt and returns the path.
func Save(dir, name, format string, entries []analysis.WordCount) (string, error) {
	var write func(io.Writer, []analysis.WordCount) error
	switch format {
	case FormatCSV, "":
		format = FormatCSV
		write = WriteCSV
	case FormatText:
		write = WriteText
	default:
		return "", fmt.Errorf("unknown report format %q", format)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results directory: %w", err)
	}

	path := filepath.Join(dir, name+"."+format)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := write(f, entries); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
