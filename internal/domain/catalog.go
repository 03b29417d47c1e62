package domain

// Catalog lists the selectable values for each dimension.
type Catalog struct {
	States   []string `json:"states"`
	Diseases []string `json:"diseases"`
	Weeks    []string `json:"weeks"` // ordered, oldest first
}

// DefaultCatalog returns the fixed dimension domains used by mock mode and
// the filter dropdowns.
func DefaultCatalog() Catalog {
	return Catalog{
		States:   []string{"Delhi", "Maharashtra", "Karnataka", "Tamil Nadu", "Gujarat", "Rajasthan"},
		Diseases: []string{"Dengue", "Malaria", "Chikungunya", "H1N1", "Typhoid", "Hepatitis"},
		Weeks:    []string{"2024-W01", "2024-W02", "2024-W03", "2024-W04", "2024-W05"},
	}
}

// LatestWeek returns the most recent week of the catalog, or "" if empty.
func (c Catalog) LatestWeek() string {
	if len(c.Weeks) == 0 {
		return ""
	}
	return c.Weeks[len(c.Weeks)-1]
}
