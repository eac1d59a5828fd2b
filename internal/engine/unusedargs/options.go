package unusedargs

// Options toggles the suppression rules. The zero value reports everything.
// An Options value is built once at startup and passed to every Plugin; it
// is never mutated while an analysis is running.
type Options struct {
	IgnoreAbstract      bool
	IgnoreOverload      bool
	IgnoreOverride      bool
	IgnoreStubs         bool
	IgnoreVariadicNames bool
	IgnoreLambdas       bool
	IgnoreNested        bool
	IgnoreDunder        bool
}

// OptionSpec describes one boolean option as exposed to a host driver.
type OptionSpec struct {
	Name  string
	Help  string
	Field func(*Options) *bool
}

// OptionSchema lists the options in a stable order.
func OptionSchema() []OptionSpec {
	return []OptionSpec{
		{
			Name:  "ignore-abstract-functions",
			Help:  "If provided, then unused arguments for functions decorated with abstractmethod will be ignored.",
			Field: func(o *Options) *bool { return &o.IgnoreAbstract },
		},
		{
			Name:  "ignore-overload-functions",
			Help:  "If provided, then unused arguments for functions decorated with overload will be ignored.",
			Field: func(o *Options) *bool { return &o.IgnoreOverload },
		},
		{
			Name:  "ignore-override-functions",
			Help:  "If provided, then unused arguments for functions decorated with override will be ignored.",
			Field: func(o *Options) *bool { return &o.IgnoreOverride },
		},
		{
			Name:  "ignore-stub-functions",
			Help:  "If provided, then unused arguments for functions that are only a pass statement, ellipsis, docstring or raise NotImplementedError will be ignored.",
			Field: func(o *Options) *bool { return &o.IgnoreStubs },
		},
		{
			Name:  "ignore-variadic-names",
			Help:  "If provided, then unused *args and **kwargs won't produce warnings.",
			Field: func(o *Options) *bool { return &o.IgnoreVariadicNames },
		},
		{
			Name:  "ignore-lambdas",
			Help:  "If provided, all lambdas are ignored.",
			Field: func(o *Options) *bool { return &o.IgnoreLambdas },
		},
		{
			Name:  "ignore-nested-functions",
			Help:  "If provided, only functions at the top level of a module or methods of a class in the top level of a module are checked.",
			Field: func(o *Options) *bool { return &o.IgnoreNested },
		},
		{
			Name:  "ignore-dunder-methods",
			Help:  "If provided, all double-underscore methods are ignored, e.g., __new__, __init__, __enter__, __exit__, __reduce_ex__, etc.",
			Field: func(o *Options) *bool { return &o.IgnoreDunder },
		},
	}
}
