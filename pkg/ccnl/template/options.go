package template

// DefaultDateLayout formats time.Time values day-first, as Italian documents do.
const DefaultDateLayout = "02/01/2006"

// MissingAction specifies what happens to the token of an unresolved key.
// The key is reported in RenderResult.MissingKeys either way.
type MissingAction int

const (
	// MissingKeep leaves the {{key}} token in the output.
	// This is the default behavior.
	MissingKeep MissingAction = iota

	// MissingEmpty removes the token from the output.
	MissingEmpty
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithMissingAction sets how tokens of unresolved keys are written.
//
// Default: MissingKeep
//
// Example:
//
//	r := NewRenderer(WithMissingAction(MissingEmpty))
//	res := r.Render("Ciao {{name}}!", nil)
//	// res.Output: "Ciao !", res.MissingKeys: ["name"]
func WithMissingAction(action MissingAction) Option {
	return func(r *Renderer) {
		r.missingAction = action
	}
}

// WithBlankAsMissing controls whether a bound empty string counts as missing.
//
// Default: true. Pass false for call sites where a blank answer is a valid
// value (an optional field left empty on purpose); the token is then
// replaced with "" and the key is not reported.
func WithBlankAsMissing(enabled bool) Option {
	return func(r *Renderer) {
		r.blankAsMissing = enabled
	}
}

// WithDateLayout sets the time.Format layout used for time.Time values.
// An empty layout restores DefaultDateLayout.
func WithDateLayout(layout string) Option {
	return func(r *Renderer) {
		if layout == "" {
			layout = DefaultDateLayout
		}
		r.dateLayout = layout
	}
}

// WithFloatPrecision sets the number of decimals written for float values.
// A negative precision writes the shortest exact representation.
//
// Example:
//
//	r := NewRenderer(WithFloatPrecision(2))
//	res := r.Render("{{amount}}", Bindings{"amount": 1850.5})
//	// res.Output: "1850.50"
func WithFloatPrecision(n int) Option {
	return func(r *Renderer) {
		r.floatPrecision = n
	}
}
