// Package utils provides common utility functions for the print-exporter application.
// It includes loose type conversions used when reading record properties and
// other shared logic that does not fit into a domain package.
package utils
