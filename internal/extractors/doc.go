// Package extractors contains per-format text extractors.
// Each subpackage implements driven.Extractor for specific file extensions.
package extractors
