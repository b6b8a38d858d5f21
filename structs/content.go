package structs

type TeamMember struct {
	Name     string `json:"name" validate:"required,max=100"`
	Role     string `json:"role" validate:"max=100"`
	Bio      string `json:"bio" validate:"max=2000"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
}

type Stat struct {
	Label string `json:"label" validate:"required,max=100"`
	Value string `json:"value" validate:"required,max=100"`
}

// AboutExtended holds the structured About sections stored as jsonb.
type AboutExtended struct {
	Mission string       `json:"mission,omitempty"`
	Values  []string     `json:"values,omitempty"`
	Team    []TeamMember `json:"team,omitempty"`
	Stats   []Stat       `json:"stats,omitempty"`
}

// AboutExtendedUpdate replaces only the sections that are present.
type AboutExtendedUpdate struct {
	Mission *string      `json:"mission"`
	Values  []string     `json:"values"`
	Team    []TeamMember `json:"team" validate:"omitempty,dive"`
	Stats   []Stat       `json:"stats" validate:"omitempty,dive"`
}

type AboutRequest struct {
	Title    *string              `json:"title" validate:"omitempty,min=1,max=200"`
	Subtitle *string              `json:"subtitle" validate:"omitempty,max=300"`
	Story    *string              `json:"story" validate:"omitempty,max=20000"`
	ImageURL *string              `json:"imageUrl" validate:"omitempty,url"`
	Extended *AboutExtendedUpdate `json:"extended"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,min=5,max=5000"`
}
