// Package mapping holds the column-mapping logic of the data source wizard:
// column type detection, identifier route inference, heuristic auto-mapping,
// mapping validation and revenue aggregation over mapped rows.
package mapping
