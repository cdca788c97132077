package ingest

// Defaults for the bundled offline text.
const (
	DefaultName     = "개역개정 (오프라인)"
	DefaultLanguage = "ko"
	DefaultID       = "offline:ko:gaejong"
)

// Option configures tree metadata.
type Option func(*options)

type options struct {
	id       string
	name     string
	language string
}

// WithID sets the tree identifier.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithName sets the tree display name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLanguage sets the tree language code.
func WithLanguage(code string) Option {
	return func(o *options) { o.language = code }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) fillDefaults() {
	if o.id == "" {
		o.id = DefaultID
	}
	if o.name == "" {
		o.name = DefaultName
	}
	if o.language == "" {
		o.language = DefaultLanguage
	}
}
