package parse

type parseOpts struct {
	jwcc      bool
	allowDups bool
}

type ParseOption func(*parseOpts)

// ParseJWCC accepts comments and trailing commas.
func ParseJWCC() ParseOption {
	return func(o *parseOpts) { o.jwcc = true }
}

// AllowDuplicates keeps the last value of a repeated object field instead
// of failing.
func AllowDuplicates() ParseOption {
	return func(o *parseOpts) { o.allowDups = true }
}
