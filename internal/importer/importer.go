// Package importer bulk-loads products into the backend through the admin
// product API from a CSV export.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"retail-console/internal/domain"
	"retail-console/internal/upstream"
)

type ProductCreator interface {
	CreateProduct(ctx context.Context, token string, in upstream.ProductInput) (*domain.Product, error)
}

// CSVImporter reads product rows and creates each through the backend.
// Expected headers: productName, price, stockQuantity, category, expiryDate,
// imageUrl.
type CSVImporter struct {
	reader  *csv.Reader
	creator ProductCreator
	token   string
}

func NewCSVImporter(r io.Reader, creator ProductCreator, token string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:  csvr,
		creator: creator,
		token:   token,
	}
}

// Run parses CSV rows and creates products one by one, stopping at the first
// failure so a partial import is visible in the returned count.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		in, ok := parseRow(record, index)
		if !ok {
			continue
		}
		if in.ProductName == "" || in.Price <= 0 {
			return imported, fmt.Errorf("invalid product row (name %q, price %v)", in.ProductName, in.Price)
		}

		if _, err := i.creator.CreateProduct(ctx, i.token, in); err != nil {
			return imported, fmt.Errorf("create product %q: %w", in.ProductName, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (upstream.ProductInput, bool) {
	name := pick(record, index, "productName")
	priceStr := pick(record, index, "price")
	if name == "" && priceStr == "" {
		return upstream.ProductInput{}, false
	}

	price, _ := strconv.ParseFloat(priceStr, 64)
	quantity, _ := strconv.Atoi(pick(record, index, "stockQuantity"))

	return upstream.ProductInput{
		ProductName: name,
		Price:       price,
		Quantity:    quantity,
		Category:    pick(record, index, "category"),
		ExpiryDate:  pick(record, index, "expiryDate"),
		ImageURL:    pick(record, index, "imageUrl"),
	}, true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
