package model

import (
	"github.com/rotisserie/eris"
)

// Location is the device GPS position attached to an input record.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// InputRecord is one parsed input log entry, written by an edge device when an
// image is submitted for inference.
type InputRecord struct {
	ImageID   string    `json:"image_id"`
	Timestamp string    `json:"timestamp"`
	Location  *Location `json:"location"`
}

// Validate reports whether the record carries every field the correlation
// pipeline requires. A record failing validation is treated as malformed and
// skipped at load time.
func (r InputRecord) Validate() error {
	if r.ImageID == "" {
		return eris.New("missing image_id")
	}
	if r.Timestamp == "" {
		return eris.New("missing timestamp")
	}
	if r.Location == nil {
		return eris.New("missing location")
	}
	return nil
}

// OutputRecord is one parsed output log entry, written after inference
// completes for an image.
type OutputRecord struct {
	ImageIDFromLog       string   `json:"image_id_from_log"`
	InferenceTimeSeconds *float64 `json:"inference_time_seconds"`
}

// Validate reports whether the record carries every field the correlation
// pipeline requires.
func (r OutputRecord) Validate() error {
	if r.ImageIDFromLog == "" {
		return eris.New("missing image_id_from_log")
	}
	if r.InferenceTimeSeconds == nil {
		return eris.New("missing inference_time_seconds")
	}
	return nil
}
