package statement

// Default CSV column names.
const (
	DefaultDateColumn        = "Date"
	DefaultDescriptionColumn = "Description"
	DefaultAmountColumn      = "Amount"
	DefaultTypeColumn        = "Type"
	DefaultReferenceColumn   = "Reference"
)

// DefaultDescription replaces an empty statement narrative.
const DefaultDescription = "Unknown"

// CSVOptions controls how CSV statements are read.
// Zero values fall back to the defaults.
//
// With a header row, columns are addressed by name (case-insensitive). Without
// one, a column option holding an integer is a zero-based index and anything
// else resolves to the default order: date, description, amount, type, reference.
type CSVOptions struct {
	HasHeader         *bool  `json:"hasHeader,omitempty" mapstructure:"has_header"`
	DateColumn        string `json:"dateColumn,omitempty" mapstructure:"date_column"`
	DescriptionColumn string `json:"descriptionColumn,omitempty" mapstructure:"description_column"`
	AmountColumn      string `json:"amountColumn,omitempty" mapstructure:"amount_column"`
	TypeColumn        string `json:"typeColumn,omitempty" mapstructure:"type_column"`
	ReferenceColumn   string `json:"referenceColumn,omitempty" mapstructure:"reference_column"`
	DateFormat        string `json:"dateFormat,omitempty" mapstructure:"date_format"` // Tried before the permissive layouts
}

// DefaultCSVOptions returns the options used when none are supplied.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{}.withDefaults()
}

func (o CSVOptions) withDefaults() CSVOptions {
	if o.DateColumn == "" {
		o.DateColumn = DefaultDateColumn
	}
	if o.DescriptionColumn == "" {
		o.DescriptionColumn = DefaultDescriptionColumn
	}
	if o.AmountColumn == "" {
		o.AmountColumn = DefaultAmountColumn
	}
	if o.TypeColumn == "" {
		o.TypeColumn = DefaultTypeColumn
	}
	if o.ReferenceColumn == "" {
		o.ReferenceColumn = DefaultReferenceColumn
	}
	if o.HasHeader == nil {
		hasHeader := true
		o.HasHeader = &hasHeader
	}
	return o
}

// WithHeader returns a copy of o with the header flag set.
func (o CSVOptions) WithHeader(hasHeader bool) CSVOptions {
	o.HasHeader = &hasHeader
	return o
}

func (o CSVOptions) headerRow() bool {
	return o.HasHeader == nil || *o.HasHeader
}
