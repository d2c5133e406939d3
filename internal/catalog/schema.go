package catalog

// Option is one entry of a select box.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Catalog lists the tiers and sort keys the front offers.
type Catalog struct {
	SpeedTiers  []Option `yaml:"speedTiers" json:"speedTiers"`
	DataTiers   []Option `yaml:"dataTiers" json:"dataTiers"`
	SortOptions []Option `yaml:"sortOptions" json:"sortOptions"`
}

// SortLabel returns the label of a sort key, or the key itself.
func (c *Catalog) SortLabel(value string) string {
	return labelOf(c.SortOptions, value)
}

// SpeedLabel returns the label of a speed tier, or the tier itself.
func (c *Catalog) SpeedLabel(value string) string {
	return labelOf(c.SpeedTiers, value)
}

// DataLabel returns the label of a data tier, or the tier itself.
func (c *Catalog) DataLabel(value string) string {
	return labelOf(c.DataTiers, value)
}

func labelOf(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
