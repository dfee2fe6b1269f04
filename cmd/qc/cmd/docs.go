package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"invoiceqc/internal/domain"
)

// loadDocuments reads detector output from a directory: plain .txt files
// become text-only documents, .json files hold a single document or an array
// of documents ({name, text, grids}). Files are processed in name order so
// batch-sensitive checks stay deterministic.
func loadDocuments(dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading document directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var docs []domain.Document
	for _, name := range names {
		path := filepath.Join(dir, name)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".txt":
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", name, err)
			}
			docs = append(docs, domain.Document{Name: name, Text: string(data)})

		case ".json":
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", name, err)
			}
			loaded, err := decodeDocuments(data)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", name, err)
			}
			for i := range loaded {
				if loaded[i].Name == "" {
					loaded[i].Name = name
				}
			}
			docs = append(docs, loaded...)
		}
	}
	return docs, nil
}

func decodeDocuments(data []byte) ([]domain.Document, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var docs []domain.Document
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, err
		}
		return docs, nil
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return []domain.Document{doc}, nil
}

// writeJSON writes v to path as indented JSON.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// printSummary prints the human-readable batch summary.
func printSummary(summary *domain.Summary) {
	fmt.Println("Summary:")
	fmt.Printf("  total invoices   : %d\n", summary.TotalInvoices)
	fmt.Printf("  valid invoices   : %d\n", summary.ValidInvoices)
	fmt.Printf("  invalid invoices : %d\n", summary.InvalidInvoices)
}
