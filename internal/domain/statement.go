package domain

import "time"

// Statement is an uploaded bank statement file kept in object storage.
type Statement struct {
	ID         string
	Key        string
	Name       string
	Size       int64
	UploadedAt *time.Time
	URL        string
}
