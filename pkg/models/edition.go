package models

// Edition is the canonical, normalized form of one browsable edition
// entry. Eenadu's own edition-list endpoints already return this shape;
// every other publisher's page descriptors are mapped into it first,
// then the aggregate is served and archived from this representation.
//
// Every field is always populated: normalization either fully succeeds
// or the entry is dropped.
type Edition struct {
	Path           string `json:"Path"`           // image path, forward slashes only
	EditionDate    string `json:"EditionDate"`    // date as the publisher emits it (dd/mm/yyyy)
	EditionName    string `json:"EditionName"`    // publisher-prefixed display name
	MobEditionName string `json:"MobEditionName"` // raw edition name from the publisher
	EditionID      int    `json:"editionID"`
	PageID         string `json:"PageId"`
	Date           string `json:"Date"` // EditionDate with slashes replaced by dashes
	Source         string `json:"Source"`
}
