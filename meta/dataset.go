package meta

// Dataset describes a dataset kind: the ordered components it may contain.
type Dataset struct {
	Name       string
	Components []Component

	lookup map[string]int
}

// NewDataset declares a dataset kind. Component names must be unique.
func NewDataset(name string, components ...Component) (Dataset, error) {
	if name == "" {
		return Dataset{}, invalid("dataset", name, "", "empty name")
	}
	d := Dataset{
		Name:       name,
		Components: make([]Component, len(components)),
		lookup:     make(map[string]int, len(components)),
	}
	copy(d.Components, components)
	for i := range d.Components {
		n := d.Components[i].Name
		if _, dup := d.lookup[n]; dup {
			return Dataset{}, invalid("component", n, name, "duplicate name")
		}
		d.lookup[n] = i
	}
	return d, nil
}

// FindComponent returns the index of the named component, or -1.
func (d *Dataset) FindComponent(name string) int {
	if i, ok := d.lookup[name]; ok {
		return i
	}
	return -1
}

// Component returns the named component.
func (d *Dataset) Component(name string) (*Component, error) {
	i := d.FindComponent(name)
	if i < 0 {
		return nil, unknown("component", name, d.Name)
	}
	return &d.Components[i], nil
}

// MetaData is the schema registry: every known dataset kind.
type MetaData struct {
	Datasets []Dataset

	lookup map[string]int
}

// New builds a registry. Dataset kind names must be unique.
func New(datasets ...Dataset) (*MetaData, error) {
	md := &MetaData{
		Datasets: make([]Dataset, len(datasets)),
		lookup:   make(map[string]int, len(datasets)),
	}
	copy(md.Datasets, datasets)
	for i := range md.Datasets {
		n := md.Datasets[i].Name
		if _, dup := md.lookup[n]; dup {
			return nil, invalid("dataset", n, "", "duplicate name")
		}
		md.lookup[n] = i
	}
	return md, nil
}

// FindDataset returns the index of the named dataset kind, or -1.
func (m *MetaData) FindDataset(name string) int {
	if i, ok := m.lookup[name]; ok {
		return i
	}
	return -1
}

// Dataset returns the named dataset kind.
func (m *MetaData) Dataset(name string) (*Dataset, error) {
	i := m.FindDataset(name)
	if i < 0 {
		return nil, unknown("dataset", name, "")
	}
	return &m.Datasets[i], nil
}
