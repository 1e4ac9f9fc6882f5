package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/prepaclassics/backend/core/exercise"
)

const defaultSheetName = "Sheet1"

// ImportConfig defines how a catalog file is read. Both formats use the same
// column order: title, chapter, niveau, exercise count, premium flag, url.
type ImportConfig struct {
	FilePath  string
	SheetName string // .xlsx only
	StartRow  int    // 1-based; 2 skips a header row
}

// ImportResult sums up one import run.
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Errors         []string
}

func (res *ImportResult) print() {
	fmt.Printf("processed %d rows: %d created, %d updated, %d rejected\n",
		res.TotalProcessed, res.Created, res.Updated, len(res.Errors))
	for _, e := range res.Errors {
		fmt.Println("  " + e)
	}
}

// importCatalog upserts catalog entries from an .xlsx or .csv file. Rows that
// fail validation are reported and skipped; they never abort the run.
func (cli *commandLine) importCatalog(config ImportConfig) (*ImportResult, error) {
	rows, err := readRows(config)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	result := &ImportResult{Errors: make([]string, 0)}

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow {
			continue
		}
		if isEmptyRow(row) {
			continue
		}
		result.TotalProcessed++

		ne, err := parseRow(row)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if err = ne.Validate(cli.validate); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		_, created, err := cli.exoSvc.Upsert(ctx, ne)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

func readRows(config ImportConfig) ([][]string, error) {
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return readCSVRows(config.FilePath)
	}
	return readExcelRows(config.FilePath, config.SheetName)
}

func readExcelRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening xlsx file")
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening csv file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // allow ragged rows
	reader.LazyQuotes = true

	rows := make([][]string, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading csv")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(row []string) (exercise.NewExercise, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	ne := exercise.NewExercise{
		Title:     cell(0),
		Chapter:   cell(1),
		Niveau:    normalizeImportNiveau(cell(2)),
		URLEnonce: cell(5),
	}

	if count := cell(3); count != "" {
		n, err := strconv.Atoi(count)
		if err != nil {
			return exercise.NewExercise{}, fmt.Errorf("exercise_count %q is not a number", count)
		}
		ne.ExerciseCount = n
	}

	switch strings.ToLower(cell(4)) {
	case "", "0", "false", "non", "no":
	case "1", "true", "oui", "yes", "premium":
		ne.IsPremium = true
	default:
		return exercise.NewExercise{}, fmt.Errorf("is_premium %q is not a boolean", cell(4))
	}
	return ne, nil
}

// normalizeImportNiveau maps free-form level spellings to the canonical ones.
func normalizeImportNiveau(niveau string) string {
	switch exercise.NormalizeNiveau(niveau) {
	case "sup":
		return exercise.NiveauSup
	case "spe":
		return exercise.NiveauSpe
	case "oral":
		return exercise.NiveauOral
	}
	return niveau // left as-is so validation reports it
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
