package models

import "encoding/json"

// RawPage is one page descriptor as returned by a publisher's
// GetAllpages endpoint. Numeric-looking fields arrive as strings from
// some publishers and as numbers from others, so they are kept as
// json.Number until normalization.
type RawPage struct {
	PageNo          json.Number `json:"PageNo"`
	HighResolution  string      `json:"HighResolution"`
	XHighResolution string      `json:"XHighResolution"`
	EditionDate     string      `json:"EditionDate"`
	EditionName     string      `json:"EditionName"`
	EditionID       json.Number `json:"EditionID"`
	PageID          json.Number `json:"PageId"`
}
