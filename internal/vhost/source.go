package vhost

// Source supplies virtual-host declarations.
type Source interface {
	Declarations() ([]Declaration, error)
}

// StaticSource is a fixed list of declarations.
type StaticSource []Declaration

// Declarations returns the list unchanged.
func (s StaticSource) Declarations() ([]Declaration, error) {
	return s, nil
}

// MultiSource concatenates several sources in order.
type MultiSource []Source

// Declarations returns the declarations of every source, stopping at the
// first error.
func (m MultiSource) Declarations() ([]Declaration, error) {
	var all []Declaration
	for _, s := range m {
		d, err := s.Declarations()
		if err != nil {
			return nil, err
		}
		all = append(all, d...)
	}
	return all, nil
}

// Requirements reads src and scans the result.
func Requirements(src Source) ([]Requirement, error) {
	decls, err := src.Declarations()
	if err != nil {
		return nil, err
	}
	return Scan(decls), nil
}
