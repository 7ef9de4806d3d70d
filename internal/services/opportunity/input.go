package opportunity

// Input is an opportunity as submitted by a client. Nil fields were absent from the request.
type Input struct {
	Title        *string
	Client       *string
	ContactName  *string
	ContactEmail *string
	Description  *string
	Type         *string
	Complexity   *string
	Duration     *string
	Skills       *string
	DealValue    *float64
}

// ValidationError names the first required field missing from an Input
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "Missing field: " + e.Field
}

// Validate checks required fields in a fixed order and reports the first one missing
func (in Input) Validate() error {
	fields := []struct {
		name    string
		present bool
	}{
		{"title", in.Title != nil},
		{"client", in.Client != nil},
		{"contact_name", in.ContactName != nil},
		{"contact_email", in.ContactEmail != nil},
		{"description", in.Description != nil},
		{"type", in.Type != nil},
		{"complexity", in.Complexity != nil},
		{"duration", in.Duration != nil},
		{"skills", in.Skills != nil},
		{"deal_value", in.DealValue != nil},
	}
	for _, f := range fields {
		if !f.present {
			return &ValidationError{Field: f.name}
		}
	}
	return nil
}
