// Package input reads the CSV files a pipeline run can start from: listing
// URLs to extract business names from, or business names directly.
package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ValidationError indicates the provided CSV payload is unusable.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// ListingURL is one listing page to extract business names from.
type ListingURL struct {
	URL      string
	Location string
}

// BusinessName is one business to resolve and scrape directly.
type BusinessName struct {
	Name     string
	Location string
}

// ReadListingURLs parses a CSV with a required url column and an optional
// location column. Rows without a URL are skipped.
func ReadListingURLs(r io.Reader) ([]ListingURL, error) {
	rows, index, err := readWithHeader(r, "url")
	if err != nil {
		return nil, err
	}

	urls := make([]ListingURL, 0, len(rows))
	for _, row := range rows {
		url := strings.TrimSpace(cell(row, index, "url"))
		if url == "" {
			continue
		}
		urls = append(urls, ListingURL{
			URL:      url,
			Location: strings.TrimSpace(cell(row, index, "location")),
		})
	}
	return urls, nil
}

// ReadBusinessNames parses a CSV with a required business_name column and an
// optional location column. Rows without a name are skipped.
func ReadBusinessNames(r io.Reader) ([]BusinessName, error) {
	rows, index, err := readWithHeader(r, "business_name")
	if err != nil {
		return nil, err
	}

	names := make([]BusinessName, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(cell(row, index, "business_name"))
		if name == "" {
			continue
		}
		names = append(names, BusinessName{
			Name:     name,
			Location: strings.TrimSpace(cell(row, index, "location")),
		})
	}
	return names, nil
}

func readWithHeader(r io.Reader, required string) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ValidationError{Message: "csv file is empty"}
		}
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := index[required]; !ok {
		return nil, nil, ValidationError{Message: fmt.Sprintf("missing required column: %s", required)}
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, index, nil
}

func cell(row []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
