package models

// ScanJob is the queue message that hands an uploaded screenshot to the
// background scanner.
type ScanJob struct {
	BlobName   string `json:"blob_name"`
	Filename   string `json:"filename"`
	Generation uint64 `json:"generation"`
}

// ScanRecord is the audit entry written for every finished scan.
type ScanRecord struct {
	Generation uint64 `json:"generation"`
	Filename   string `json:"filename"`
	Provider   string `json:"provider"`
	TextLength int    `json:"text_length"`
	Candidates int    `json:"candidates"`
	Notice     string `json:"notice,omitempty"`
	Stale      bool   `json:"stale"`
}
