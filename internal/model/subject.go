package model

// Subject represents an academic subject, the top of the
// subject → theme → quiz hierarchy.
type Subject struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	ShortName   string  `json:"short_name"`
	Description *string `json:"description,omitempty"`
	YearStart   int     `json:"year_start"`
	YearEnd     int     `json:"year_end"`
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	ShortName   string  `json:"short_name" binding:"required,min=1,max=32"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	YearStart   int     `json:"year_start" binding:"required,min=1900,max=2200"`
	YearEnd     int     `json:"year_end" binding:"required,gtefield=YearStart,max=2200"`
}
