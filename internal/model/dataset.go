package model

import "time"

// Row is one correlated input/output pair for a single image.
type Row struct {
	ImageID              string    `json:"image_id"`
	Timestamp            time.Time `json:"timestamp"`
	Country              string    `json:"country"`
	InferenceTimeSeconds float64   `json:"inference_time_seconds"`
	Location             Location  `json:"location"`

	// Artifact sizes in megabytes, rounded to 5 decimal places. A nil value
	// means the artifact does not exist on disk; a zero-byte artifact is 0.
	InputFileSize  *float64 `json:"input_file_size"`
	OutputFileSize *float64 `json:"output_file_size"`
}

// Dataset holds the joined rows for one country, in join order.
type Dataset struct {
	Country string `json:"country"`
	Rows    []Row  `json:"rows"`
}
