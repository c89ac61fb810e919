package models

import apperr "github.com/julianstephens/glowup/internal/errors"

type ViceStatus string

const (
	ViceClean   ViceStatus = "clean"
	ViceRelapse ViceStatus = "relapse"
)

// Vice is a behaviour tracked for clean days. Its streak is derived from completions.
type Vice struct {
	Meta
	Name  string `json:"name"`
	Note  string `json:"note,omitempty"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

func (v *Vice) Validate() error {
	if v.Name == "" {
		return apperr.Invalid("vice", "name", "cannot be empty")
	}
	return nil
}

type ViceCompletion struct {
	Meta
	ViceID     string     `json:"viceId"`
	Date       string     `json:"date"`
	Status     ViceStatus `json:"status"`
	Note       string     `json:"note,omitempty"`
	RecordedAt string     `json:"recordedAt,omitempty"`
}

func (c *ViceCompletion) Validate() error {
	if c.ViceID == "" {
		return apperr.Invalid("vice completion", "viceId", "cannot be empty")
	}
	if !validDate(c.Date) {
		return apperr.Invalid("vice completion", "date", "must be YYYY-MM-DD")
	}
	if c.Status != ViceClean && c.Status != ViceRelapse {
		return apperr.Invalid("vice completion", "status", "must be clean or relapse")
	}
	return nil
}
