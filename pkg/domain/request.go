package domain

import "fmt"

// CloneRequest asks for Source to be copied as Destination inside the file at Path.
type CloneRequest struct {
	Path        string `json:"path" yaml:"path" mapstructure:"path"`
	Source      string `json:"source" yaml:"source" mapstructure:"source"`
	Destination string `json:"destination" yaml:"destination" mapstructure:"destination"`
}

// Validate checks the request shape. It does not touch the file system.
// Equal names are reported before missing fields are, and the destination
// must survive a round trip through either file format.
func (r CloneRequest) Validate() error {
	if r.Source == r.Destination {
		return fmt.Errorf("%w: %q", ErrDuplicateName, r.Source)
	}
	switch {
	case r.Path == "":
		return fmt.Errorf("%w: path is required", ErrInvalidRequest)
	case r.Source == "":
		return fmt.Errorf("%w: source is required", ErrInvalidRequest)
	case r.Destination == "":
		return fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	if err := CheckNodeName(r.Destination); err != nil {
		return fmt.Errorf("%w: destination: %w", ErrInvalidRequest, err)
	}
	return nil
}

func (r CloneRequest) String() string {
	return fmt.Sprintf("%s: %s -> %s", r.Path, r.Source, r.Destination)
}
