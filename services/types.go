package services

// ProductCreateRequest is the parsed create form. InStock is a pointer so an
// omitted field falls back to the in-stock default.
type ProductCreateRequest struct {
	Name        string
	Price       float64
	Category    string
	Description string
	InStock     *bool
}

// ProductUpdateRequest is the parsed update form. Every field is a pointer:
// nil means "not supplied, keep the stored value".
type ProductUpdateRequest struct {
	Name        *string
	Price       *float64
	Category    *string
	Description *string
	InStock     *bool
}

// IsEmpty reports whether the request supplies no fields at all.
func (r ProductUpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Price == nil && r.Category == nil &&
		r.Description == nil && r.InStock == nil
}
