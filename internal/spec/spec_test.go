package spec_test

import (
	"testing"

	"glide/internal/spectest"
)

type specCase struct {
	name     string
	source   string
	files    map[string]string
	entry    string
	input    string
	maxDepth int
	maxSteps int64
	expect   spectest.Expectation
}

func runCases(t *testing.T, cases []specCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := spectest.Run(t, spectest.Options{
				Source:   tc.source,
				Files:    tc.files,
				Entry:    tc.entry,
				Input:    tc.input,
				MaxDepth: tc.maxDepth,
				MaxSteps: tc.maxSteps,
			})
			spectest.Assert(t, res, tc.expect)
		})
	}
}

func TestLanguageBaseline(t *testing.T) {
	runCases(t, []specCase{
		{
			name: "tour",
			source: "def greet(who: str): str {\n" +
				"  exit \"hello, \" who str\n" +
				"}\n" +
				"loop 2 with i {\n" +
				"  print greet(\"glide\") \" #\" i str\n" +
				"}\n",
			expect: spectest.Expectation{Stdout: "hello, glide #0\nhello, glide #1\n"},
		},
		{
			name:   "binary_arithmetic",
			source: "print b101 b1 +\nprint b101 1 +\n",
			expect: spectest.Expectation{Stdout: "b110\n6\n"},
		},
		{
			name:   "division_widens",
			source: "print 7 2 /\nprint 6 3 /\n",
			expect: spectest.Expectation{Stdout: "3.5\n2\n"},
		},
		{
			name: "nested_containers",
			source: "make p = \"name\" \"ann\" list obj\n" +
				"p.tags = \"x\" list\n" +
				"p.tags[1] = \"y\"\n" +
				"print p.tags\n",
			expect: spectest.Expectation{Stdout: "[\"x\", \"y\"]\n"},
		},
		{
			name:   "rand_from_single_item_list",
			source: "make xs = \"a\" list\nprint xs rand\n",
			expect: spectest.Expectation{Stdout: "a\n"},
		},
		{
			name: "fizzbuzz",
			source: "loop 15 with i {\n" +
				"  make n = i 1 +\n" +
				"  when n 15 % 0 == {\n" +
				"    print \"FizzBuzz\"\n" +
				"  } else when n 3 % 0 == {\n" +
				"    print \"Fizz\"\n" +
				"  } else when n 5 % 0 == {\n" +
				"    print \"Buzz\"\n" +
				"  } else {\n" +
				"    print n\n" +
				"  }\n" +
				"}\n",
			expect: spectest.Expectation{Stdout: "fizzbuzz.golden", StdoutMode: spectest.StdoutGolden},
		},
		{
			name:   "time_is_a_live_value",
			source: "print time\nprint time typeof\n",
			expect: spectest.Expectation{Stdout: "\nint\n", StdoutMode: spectest.StdoutContains},
		},
		{
			name:   "redundant_global_warns",
			source: "make global g = 1\nprint g\n",
			expect: spectest.Expectation{Stdout: "1\n", Warnings: []string{"GW0001"}},
		},
	})
}

func TestInput(t *testing.T) {
	runCases(t, []specCase{
		{
			name:   "reads_lines_in_order",
			source: "make name = input\nmake n = input num\nloop n { print name }\n",
			input:  "ann\n3\n",
			expect: spectest.Expectation{Stdout: "ann\nann\nann\n"},
		},
		{
			name:   "last_line_without_newline",
			source: "print input\n",
			input:  "tail",
			expect: spectest.Expectation{Stdout: "tail\n"},
		},
		{
			name:   "exhausted_input_is_runtime_error",
			source: "print input\n",
			expect: spectest.Expectation{ErrCode: "GR0001", ErrContains: "input request was cancelled"},
		},
	})
}

func TestErrors(t *testing.T) {
	runCases(t, []specCase{
		{
			name:   "lex_error",
			source: "print \"open\n",
			expect: spectest.Expectation{ErrCode: "GL0001", ErrContains: "unterminated string"},
		},
		{
			name:   "parse_error",
			source: "print 1\nloop 3 print 1\n",
			expect: spectest.Expectation{ErrCode: "GP0001", ErrContains: "expected next token to be {"},
		},
		{
			name:   "compile_error_runs_nothing",
			source: "print 1\ndef f() { print 1 }\ndef f() { print 2 }\n",
			expect: spectest.Expectation{ErrCode: "GC0001", ErrContains: "function f is already defined at line 2"},
		},
		{
			name:   "runtime_error_keeps_earlier_output",
			source: "print 1\nprint 1 0 /\nprint 2\n",
			expect: spectest.Expectation{Stdout: "1\n", ErrCode: "GR0001", ErrContains: "mathematically impossible operation"},
		},
		{
			name:     "call_depth_limit",
			source:   "def r(n) { r(n) }\nr(1)\n",
			maxDepth: 20,
			expect:   spectest.Expectation{ErrCode: "GR0001", ErrContains: "maximum call depth exceeded (20)"},
		},
		{
			name:     "step_limit",
			source:   "print 1\nloop when 1 { make a = 1 }\n",
			maxSteps: 5,
			expect:   spectest.Expectation{Stdout: "1\n", ErrCode: "GR0001", ErrContains: "max steps exceeded (5)"},
		},
	})
}

func TestModules(t *testing.T) {
	runCases(t, []specCase{
		{
			name:   "sibling_module",
			source: "use \"helper\"\nprint sq(9)\n",
			files:  map[string]string{"helper.glide": "def sq(n) { exit n n * }\n"},
			expect: spectest.Expectation{Stdout: "81\n"},
		},
		{
			name:   "std_module",
			source: "use \"std:mathx\"\nprint sq(3)\n",
			files:  map[string]string{"std/mathx.glide": "def sq(n) { exit n n * }\n"},
			expect: spectest.Expectation{Stdout: "9\n"},
		},
		{
			name:   "relative_module",
			source: "use \"./lib/util\"\nprint 9 half\n",
			files:  map[string]string{"lib/util.glide": "replace half = 2 /\n"},
			expect: spectest.Expectation{Stdout: "4.5\n"},
		},
		{
			name:   "search_path_module",
			entry:  "app/main.glide",
			source: "use common\nprint greeting\n",
			files:  map[string]string{"common.glide": "make greeting = \"hey\"\n"},
			expect: spectest.Expectation{Stdout: "hey\n"},
		},
		{
			name:   "reimport_warns",
			source: "use \"m\"\nuse \"m\"\nprint x\n",
			files:  map[string]string{"m.glide": "make x = 1\n"},
			expect: spectest.Expectation{Stdout: "1\n", Warnings: []string{"GW0002"}},
		},
		{
			name:   "reimport_other_spelling_warns",
			source: "use m\nuse \"./m\"\nprint x\n",
			files:  map[string]string{"m.glide": "make x = 1\n"},
			expect: spectest.Expectation{Stdout: "1\n", Warnings: []string{"GW0002"}},
		},
		{
			name:   "module_function_collision",
			source: "def sq(n) { exit n }\nuse \"helper\"\n",
			files:  map[string]string{"helper.glide": "def sq(n) { exit n n * }\n"},
			expect: spectest.Expectation{ErrCode: "GC0001", ErrContains: "in module helper: function sq is already defined in main.glide at line 1"},
		},
		{
			name:   "missing_module",
			source: "use \"missing\"\n",
			expect: spectest.Expectation{ErrCode: "GR0001", ErrContains: "module missing not found"},
		},
		{
			name:   "module_runtime_error",
			source: "print \"before\"\nuse \"broken\"\n",
			files:  map[string]string{"broken.glide": "print 1 0 /\n"},
			expect: spectest.Expectation{Stdout: "before\n", ErrCode: "GR0001", ErrContains: "mathematically impossible operation"},
		},
		{
			name:   "module_compile_error",
			source: "use \"broken\"\n",
			files:  map[string]string{"broken.glide": "make x: int = \"a\"\n"},
			expect: spectest.Expectation{ErrCode: "GC0001", ErrContains: "in module broken: type mismatch: x expects int, got str"},
		},
	})
}
