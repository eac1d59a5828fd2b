package unusedargs

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type warning struct {
	line   int
	column int
	text   string
	check  string
}

func runPlugin(t *testing.T, code string, opts Options) []warning {
	t.Helper()
	unit := parseSource(t, code)
	var out []warning
	for res := range New(unit.Root(), unit.Source, opts).Run() {
		line, column, text, check := res.Tuple()
		out = append(out, warning{line, column, text, check})
	}
	return out
}

func u100(line, column int, name string) warning {
	return warning{line, column, "U100 Unused argument '" + name + "'", CheckName}
}

func u101(line, column int, name string) warning {
	return warning{line, column, "U101 Unused argument '" + name + "'", CheckName}
}

const nestedCode = `
def foo(a):
    def bar(b):
        pass
zed = lambda c: lambda d: 1
`

const dunderCode = `
class Foo:
    def __new__(cls):
        return []
    def __enter__(self):
        return self
    def __exit__(self, exc_tp, exc_v, exc_tb):
        return False
    def __setattr__(self, item, value):
        raise ValueError("read-only")
    def __reduce_ex__(self, protocol):
        return Foo, ()
`

func TestPlugin_Run(t *testing.T) {
	tests := []struct {
		name string
		code string
		opts Options
		want []warning
	}{
		{"abstract reported", "\n@abstractmethod\ndef foo(a):\n    pass\n", Options{}, []warning{u100(3, 8, "a")}},
		{"abstract ignored", "\n@abstractmethod\ndef foo(a):\n    pass\n", Options{IgnoreAbstract: true}, nil},
		{"abstract attribute ignored", "\n@abc.abstractmethod\ndef foo(a):\n    pass\n", Options{IgnoreAbstract: true}, nil},
		{"overload reported", "\n@overload\ndef foo(a):\n    pass\n", Options{}, []warning{u100(3, 8, "a")}},
		{"overload ignored", "\n@overload\ndef foo(a):\n    pass\n", Options{IgnoreOverload: true}, nil},
		{"override reported", "\n@override\ndef foo(a):\n    pass\n", Options{}, []warning{u100(3, 8, "a")}},
		{"override ignored", "\n@typing.override\ndef foo(a):\n    pass\n", Options{IgnoreOverride: true}, nil},
		{"stub reported", "\ndef foo(a):\n    pass\n", Options{}, []warning{u100(2, 8, "a")}},
		{"stub ignored", "\ndef foo(a):\n    pass\n", Options{IgnoreStubs: true}, nil},
		{"non-stub with stubs ignored", "\ndef foo(a):\n    return 1\n", Options{IgnoreStubs: true}, []warning{u100(2, 8, "a")}},
		{"varargs ignored", "\ndef foo(*args):\n    pass\n", Options{IgnoreVariadicNames: true}, nil},
		{"kwargs ignored", "\ndef foo(**kwargs):\n    pass\n", Options{IgnoreVariadicNames: true}, nil},
		{"varargs reported", "\ndef foo(*args):\n    pass\n", Options{}, []warning{u100(2, 9, "args")}},
		{"kwargs reported", "\ndef foo(**kwargs):\n    pass\n", Options{}, []warning{u100(2, 10, "kwargs")}},
		{"lambda ignored", "foo = lambda a: 1\n", Options{IgnoreLambdas: true}, nil},
		{"lambda reported", "foo = lambda a: 1\n", Options{}, []warning{u100(1, 13, "a")}},
		{"nested reported", nestedCode, Options{}, []warning{
			u100(2, 8, "a"), u100(3, 12, "b"), u100(5, 13, "c"), u100(5, 23, "d"),
		}},
		{"nested ignored", nestedCode, Options{IgnoreNested: true}, []warning{
			u100(2, 8, "a"), u100(5, 13, "c"),
		}},
		{"dunder reported", dunderCode, Options{}, []warning{
			u100(3, 16, "cls"),
			u100(7, 23, "exc_tp"), u100(7, 31, "exc_v"), u100(7, 38, "exc_tb"),
			u100(9, 26, "item"), u100(9, 32, "value"),
			u100(11, 28, "protocol"),
		}},
		{"dunder ignored", dunderCode, Options{IgnoreDunder: true}, nil},
		{"underscore marker", "\ndef foo(_a):\n    pass\n", Options{}, []warning{u101(2, 8, "_a")}},
		{"self exempt", "\ndef foo(self):\n    pass\n", Options{}, nil},
		{"self exempt only first", "\ndef foo(a, self):\n    pass\n", Options{}, []warning{u100(2, 8, "a"), u100(2, 11, "self")}},
		{"classmethod first exempt", "\n@classmethod\ndef foo(cls):\n    pass\n", Options{}, nil},
		{"classmethod second reported", "\n@classmethod\ndef foo(cls, bar):\n    use(cls)\n", Options{}, []warning{u100(3, 13, "bar")}},
		{"nested async", `
def cool(a):
    def inner(b):
        pass
    async def async_inner(c):
        pass
async def async_cool(d):
    def inner(e):
        pass
    async def async_inner(f):
        pass
`, Options{}, []warning{
			u100(2, 9, "a"), u100(3, 14, "b"), u100(5, 26, "c"),
			u100(7, 21, "d"), u100(8, 14, "e"), u100(10, 26, "f"),
		}},
		{"inner function use", `
# make sure we detect variables as used when they're referenced in an inner function
def cool(a):
    def inner(c):
        a()
`, Options{}, []warning{u100(4, 14, "c")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runPlugin(t, tt.code, tt.opts)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlugin_Scenarios(t *testing.T) {
	t.Run("all unused", func(t *testing.T) {
		got := runPlugin(t, "def foo(a, b, c): pass", Options{})
		assert.Equal(t, []warning{u100(1, 8, "a"), u100(1, 11, "b"), u100(1, 14, "c")}, got)
	})

	t.Run("one unused", func(t *testing.T) {
		got := runPlugin(t, "def foo(a, b, c): return a + b", Options{})
		assert.Equal(t, []warning{u100(1, 14, "c")}, got)
	})

	t.Run("variadic toggle", func(t *testing.T) {
		assert.Empty(t, runPlugin(t, "def foo(*args): pass", Options{IgnoreVariadicNames: true}))
		assert.Len(t, runPlugin(t, "def foo(*args): pass", Options{}), 1)
	})
}

func TestPlugin_RunIsRepeatableAndLazy(t *testing.T) {
	unit := parseSource(t, "def foo(a, b, c): pass\ndef bar(d): pass\n")
	plugin := New(unit.Root(), unit.Source, Options{})

	first := slices.Collect(plugin.Run())
	second := slices.Collect(plugin.Run())
	require.Len(t, first, 4)
	assert.Equal(t, first, second)

	var taken []Result
	for res := range plugin.Run() {
		taken = append(taken, res)
		if len(taken) == 2 {
			break
		}
	}
	require.Len(t, taken, 2)
	assert.Equal(t, first[:2], taken)
}

func TestPlugin_ResultFields(t *testing.T) {
	unit := parseSource(t, "class C:\n    def method(self, _x, y):\n        pass\n")
	results := slices.Collect(New(unit.Root(), unit.Source, Options{}).Run())
	require.Len(t, results, 2)

	assert.Equal(t, CodeUnusedMarked, results[0].Code)
	assert.Equal(t, "_x", results[0].Argument)
	assert.Equal(t, "method", results[0].Function)
	assert.Equal(t, CodeUnused, results[1].Code)
	assert.Equal(t, "y", results[1].Argument)

	lambdaUnit := parseSource(t, "f = lambda q: 1")
	lambdas := slices.Collect(New(lambdaUnit.Root(), lambdaUnit.Source, Options{}).Run())
	require.Len(t, lambdas, 1)
	assert.Equal(t, "<lambda>", lambdas[0].Function)
}

func TestOptionSchema(t *testing.T) {
	schema := OptionSchema()
	require.Len(t, schema, 8)

	var opts Options
	seen := make(map[string]bool)
	for _, spec := range schema {
		assert.False(t, seen[spec.Name], "duplicate option %s", spec.Name)
		seen[spec.Name] = true
		*spec.Field(&opts) = true
	}
	assert.Equal(t, Options{
		IgnoreAbstract: true, IgnoreOverload: true, IgnoreOverride: true, IgnoreStubs: true,
		IgnoreVariadicNames: true, IgnoreLambdas: true, IgnoreNested: true, IgnoreDunder: true,
	}, opts)
}
