package domain

// Catalog holds the known resources and their package lists.
// One distinguished resource has its own package list; every other resource uses the standard one.
type Catalog struct {
	resources        []string
	known            map[string]struct{}
	premiumResource  string
	premiumPackages  []string
	standardPackages []string
}

// NewCatalog builds a catalog
func NewCatalog(resources []string, premiumResource string, premiumPackages, standardPackages []string) *Catalog {
	known := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		known[r] = struct{}{}
	}

	return &Catalog{
		resources:        append([]string(nil), resources...),
		known:            known,
		premiumResource:  premiumResource,
		premiumPackages:  append([]string(nil), premiumPackages...),
		standardPackages: append([]string(nil), standardPackages...),
	}
}

// DefaultCatalog returns the reference resources and packages
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultResources, DefaultPremiumResource, DefaultPremiumPackages, DefaultStandardPackages)
}

// Resources returns the known resources in configuration order
func (c *Catalog) Resources() []string {
	return append([]string(nil), c.resources...)
}

// HasResource reports whether the resource is known
func (c *Catalog) HasResource(resourceID string) bool {
	_, ok := c.known[resourceID]
	return ok
}

// PackagesFor returns the package list offered at the resource
func (c *Catalog) PackagesFor(resourceID string) []string {
	if resourceID == c.premiumResource && len(c.premiumPackages) > 0 {
		return append([]string(nil), c.premiumPackages...)
	}
	return append([]string(nil), c.standardPackages...)
}

// HasPackage reports whether pkg is offered at the resource
func (c *Catalog) HasPackage(resourceID, pkg string) bool {
	for _, p := range c.PackagesFor(resourceID) {
		if p == pkg {
			return true
		}
	}
	return false
}
