package model

const (
	EntityName = "media"

	// Directory is the bucket prefix admin uploads are stored under.
	Directory = "images"
)
