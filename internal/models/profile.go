package models

import "fmt"

// Profile is the user context the backend uses to generate challenge phrases.
type Profile struct {
	Name  string   `json:"name"`
	Goals []string `json:"goals"`
	Fears []string `json:"fears"`
}

func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if len(p.Goals) == 0 {
		return fmt.Errorf("at least one goal is required")
	}
	if len(p.Fears) == 0 {
		return fmt.Errorf("at least one fear is required")
	}
	return nil
}
