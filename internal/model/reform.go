package model

import "github.com/rotisserie/eris"

// Component is one named provision of a reform package. Key is the token
// used in the source table's column names; it differs from the display name
// for some provisions ("Child Tax Credit Reform" appears in columns as
// "CTC Reform"). An empty Key defaults to the display name.
type Component struct {
	Name string `yaml:"name"`
	Key  string `yaml:"key,omitempty"`

	// Column names derived from Key once at catalog construction.
	FederalCol   string `yaml:"-"`
	StateCol     string `yaml:"-"`
	NetIncomeCol string `yaml:"-"`
}

// Catalog is the fixed, ordered list of reform components for one bill.
// The order is the waterfall application order; it is set here, never
// derived from data.
type Catalog struct {
	Reform     string
	Components []Component

	byName map[string]int
}

// NewCatalog validates the component list and pre-computes the three column
// names for each component.
func NewCatalog(reform string, components []Component) (*Catalog, error) {
	if reform == "" {
		return nil, eris.New("model: catalog reform name is empty")
	}
	if len(components) == 0 {
		return nil, eris.New("model: catalog has no components")
	}

	c := &Catalog{
		Reform:     reform,
		Components: make([]Component, len(components)),
		byName:     make(map[string]int, len(components)),
	}
	copy(c.Components, components)

	seenKeys := make(map[string]bool, len(components))
	for i := range c.Components {
		comp := &c.Components[i]
		if comp.Name == "" {
			return nil, eris.Errorf("model: catalog component %d has no name", i)
		}
		if comp.Key == "" {
			comp.Key = comp.Name
		}
		if _, dup := c.byName[comp.Name]; dup {
			return nil, eris.Errorf("model: duplicate component name %q", comp.Name)
		}
		if seenKeys[comp.Key] {
			return nil, eris.Errorf("model: duplicate component key %q", comp.Key)
		}
		c.byName[comp.Name] = i
		seenKeys[comp.Key] = true

		comp.FederalCol = "Federal tax liability after " + comp.Key
		comp.StateCol = "State tax liability after " + comp.Key
		comp.NetIncomeCol = "Net income change after " + comp.Key
	}

	return c, nil
}

// Len returns the number of components.
func (c *Catalog) Len() int { return len(c.Components) }

// Index returns the catalog position of the named component.
func (c *Catalog) Index(name string) (int, bool) {
	i, ok := c.byName[name]
	return i, ok
}

var hr1 = mustCatalog("HR1 bill", []Component{
	{Name: "Tax Rate Reform"},
	{Name: "Standard Deduction Reform"},
	{Name: "Exemption Reform"},
	{Name: "Child Tax Credit Reform", Key: "CTC Reform"},
	{Name: "QBID Reform"},
	{Name: "Estate Tax Reform"},
	{Name: "AMT Reform"},
	{Name: "SALT Reform"},
	{Name: "Tip Income Exemption", Key: "Tip Income Exempt"},
	{Name: "Overtime Income Exemption", Key: "Overtime Income Exempt"},
	{Name: "Auto Loan Interest Deduction", Key: "Auto Loan Interest ALD"},
	{Name: "Miscellaneous Reform"},
	{Name: "Other Itemized Deductions Reform"},
	{Name: "Pease Reform"},
})

// HR1 returns the built-in catalog for the HR1 tax bill.
func HR1() *Catalog { return hr1 }

func mustCatalog(reform string, components []Component) *Catalog {
	c, err := NewCatalog(reform, components)
	if err != nil {
		panic(err)
	}
	return c
}
