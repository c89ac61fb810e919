package models

import apperr "github.com/julianstephens/glowup/internal/errors"

const (
	CategoryBeforeAfter      = "before-after"
	CategorySpecialMilestone = "marco-especial"
)

// UploadedFile describes user media. PreviewURL points at the blob store ("blob:<id>"), never inline data once migrated.
type UploadedFile struct {
	Meta
	Filename     string         `json:"filename"`
	OriginalName string         `json:"originalName"`
	Size         int64          `json:"size"`
	Type         string         `json:"type"`
	UploadDate   string         `json:"uploadDate"`
	Tags         []string       `json:"tags"`
	Category     string         `json:"category"`
	Description  string         `json:"description,omitempty"`
	PreviewURL   string         `json:"previewUrl,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

func (u *UploadedFile) Validate() error {
	if u.Filename == "" {
		return apperr.Invalid("uploaded file", "filename", "cannot be empty")
	}
	if u.Size < 0 {
		return apperr.Invalid("uploaded file", "size", "cannot be negative")
	}
	return nil
}

type PhotoGallery struct {
	Meta
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Photos      []UploadedFile `json:"photos"`
	Tags        []string       `json:"tags"`
	Category    string         `json:"category"`
}

func (g *PhotoGallery) Validate() error {
	if g.Title == "" {
		return apperr.Invalid("gallery", "title", "cannot be empty")
	}
	return nil
}

type ProgressComparison struct {
	Meta
	Title          string       `json:"title"`
	BeforeImage    UploadedFile `json:"beforeImage"`
	AfterImage     UploadedFile `json:"afterImage"`
	TimeDifference int          `json:"timeDifference"` // days
	Notes          string       `json:"notes,omitempty"`
	Improvements   []string     `json:"improvements"`
}

func (p *ProgressComparison) Validate() error {
	if p.Title == "" {
		return apperr.Invalid("progress comparison", "title", "cannot be empty")
	}
	if p.TimeDifference < 0 {
		return apperr.Invalid("progress comparison", "timeDifference", "cannot be negative")
	}
	return nil
}

type CommunityPost struct {
	Meta
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Author      string         `json:"author"`
	Category    string         `json:"category"`
	Tags        []string       `json:"tags"`
	Likes       int            `json:"likes"`
	Comments    int            `json:"comments"`
	Attachments []UploadedFile `json:"attachments"`
}

func (c *CommunityPost) Validate() error {
	if c.Title == "" {
		return apperr.Invalid("community post", "title", "cannot be empty")
	}
	return nil
}
