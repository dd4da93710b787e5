package records

import (
	"encoding/json"
	"fmt"

	"print-exporter/core/property"

	"gorm.io/datatypes"
)

// Record is a catalog row as stored in the database.
type Record struct {
	ID         string         `gorm:"column:id;primaryKey;size:64"`
	Name       string         `gorm:"column:name;index;size:255"`
	Type       string         `gorm:"column:type;index;size:128"`
	Path       string         `gorm:"column:path;index;size:512"`
	Properties datatypes.JSON `gorm:"column:properties"`
}

// TableName overrides the table name.
func (Record) TableName() string {
	return "records"
}

// Geometry is one ordered geometry reference belonging to a record.
type Geometry struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement"`
	RecordID string `gorm:"column:record_id;index;size:64"`
	Ord      int    `gorm:"column:ord"`
	Tag      string `gorm:"column:tag;size:128"`
	Path     string `gorm:"column:path;size:512"`
}

// TableName overrides the table name.
func (Geometry) TableName() string {
	return "record_geometries"
}

// Item is the read-only view of a record handed to the export pipeline.
type Item struct {
	ID         string
	Name       string
	Type       string
	Path       string
	Properties property.Value
}

// Candidate is a tagged geometry reference in record order.
type Candidate struct {
	Tag  string `json:"tag"`
	Path string `json:"path"`
}

// Summary is the lightweight listing view of a record.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Path string `json:"path"`
}

// ToItem decodes the stored properties into an Item.
func (r Record) ToItem() (*Item, error) {
	item := &Item{ID: r.ID, Name: r.Name, Type: r.Type, Path: r.Path}
	if len(r.Properties) > 0 {
		if err := json.Unmarshal(r.Properties, &item.Properties); err != nil {
			return nil, fmt.Errorf("failed to decode properties of record %s: %w", r.ID, err)
		}
	}
	return item, nil
}

// ToSummary drops the properties.
func (r Record) ToSummary() Summary {
	return Summary{ID: r.ID, Name: r.Name, Type: r.Type, Path: r.Path}
}

// DumpEntry is one record of the extractor's JSON-lines dump.
type DumpEntry struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Path       string          `json:"path"`
	Properties json.RawMessage `json:"properties"`
	Geometry   []Candidate     `json:"geometry"`
}
