package model

import "time"

// DateValues records the lifecycle of a position. A zero time means unset.
type DateValues struct {
	Opened time.Time `json:"opened"`
	Last   time.Time `json:"last"`
	Closed time.Time `json:"closed"`
}
