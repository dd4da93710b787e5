package checks

import (
	"fmt"
	"reflect"
	"strings"

	"print-exporter/core/database"

	"gorm.io/gorm"
)

// CatalogReport is the result of a catalog schema check.
type CatalogReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckCatalog verifies the database schema using the gorm models as the source of truth.
func CheckCatalog(db *gorm.DB, models ...any) (*CatalogReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &CatalogReport{
		Tables:  make(map[string]TableReport),
		Matched: true,
		Errors:  []string{},
	}

	for _, model := range models {
		val := reflect.TypeOf(model)
		if val.Kind() != reflect.Struct {
			return nil, fmt.Errorf("model %T is not a struct", model)
		}
		tabler, ok := reflect.New(val).Interface().(interface{ TableName() string })
		if !ok {
			return nil, fmt.Errorf("model %s does not implement TableName", val.Name())
		}
		tableName := tabler.TableName()

		var expected []string
		for i := 0; i < val.NumField(); i++ {
			if col := parseGormColumn(val.Field(i).Tag.Get("gorm")); col != "" {
				expected = append(expected, col)
			}
		}

		missing, err := database.MissingColumns(db, tableName, expected)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", tableName, err))
			report.Matched = false
			continue
		}

		tbl := TableReport{MissingColumns: []string{}, Status: "ok"}
		if len(missing) > 0 {
			tbl.MissingColumns = missing
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[tableName] = tbl
	}

	return report, nil
}

func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}
