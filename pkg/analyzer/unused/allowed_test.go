package unused

import (
	"reflect"
	"regexp"
	"testing"
)

func analyzeSnippet(t *testing.T, source string, opts Options) []Finding {
	t.Helper()
	a := New(WithOptions(opts))
	defer a.Close()

	findings, err := a.AnalyzeSource([]byte(source), "snippet.ts")
	if err != nil {
		t.Fatalf("AnalyzeSource() error: %v", err)
	}
	return findings
}

func wantNames(t *testing.T, findings []Finding, want ...string) {
	t.Helper()
	got := make([]string, 0, len(findings))
	for _, f := range findings {
		got = append(got, f.Name)
	}
	if want == nil {
		want = []string{}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("findings = %v, want %v", got, want)
	}
}

func TestAfterUsedReportsTrailingParams(t *testing.T) {
	src := `function f(a: number, b: number, c: number) {
  return b;
}
f(1, 2, 3);
`
	findings := analyzeSnippet(t, src, DefaultOptions())

	// a precedes the used b and is exempt; c trails it and is not
	wantNames(t, findings, "c")
	if findings[0].Kind != KindParameter {
		t.Errorf("kind = %s, want %s", findings[0].Kind, KindParameter)
	}
}

func TestArgsAllReportsEveryUnusedParam(t *testing.T) {
	src := `function f(a: number, b: number, c: number) {
  return b;
}
f(1, 2, 3);
`
	opts := DefaultOptions()
	opts.Args = ArgsAll

	wantNames(t, analyzeSnippet(t, src, opts), "a", "c")
}

func TestArgsNoneSkipsParams(t *testing.T) {
	src := `function f(a: number, b: number, c: number) {}
f(1, 2, 3);
`
	opts := DefaultOptions()
	opts.Args = ArgsNone

	wantNames(t, analyzeSnippet(t, src, opts))
}

func TestConstructorPropertyParams(t *testing.T) {
	src := `class Point {
  constructor(public x: number, y: number) {}
}
new Point(1, 2);
`
	// x declares a class member; y is an ordinary unused parameter
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()), "y")
}

func TestModifierParamShieldsEarlierOnes(t *testing.T) {
	src := `class Box {
  constructor(unused: number, readonly size: number) {}
}
new Box(1, 2);
`
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()))
}

func TestSetterParams(t *testing.T) {
	src := `class Store {
  set state(next: number) {}
}
const handlers = {
  set mode(value: string) {},
};
new Store();
handlers.mode = "on";
`
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()))
}

func TestDestructuredParamNeverPositionallyExempt(t *testing.T) {
	src := `function f({ a }: { a: number }, b: number) {
  return b;
}
f({ a: 1 }, 2);
`
	// a destructured binding cannot be skipped when calling, so a later
	// used parameter does not excuse it
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()), "a")
}

func TestRestParams(t *testing.T) {
	src := `declare function log(...args: unknown[]): void;
function sum(...nums: number[]) {}
sum(1, 2);
`
	findings := analyzeSnippet(t, src, DefaultOptions())

	// args belongs to a type-only signature; nums has a body to use it in
	wantNames(t, findings, "nums")
	if findings[0].Kind != KindParameter {
		t.Errorf("kind = %s, want %s", findings[0].Kind, KindParameter)
	}
}

func TestOverloadSignatureParams(t *testing.T) {
	src := `function pick(key: string): number;
function pick(key: string, index: number): number {
  return index + key.length;
}
pick("a", 1);
`
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()))
}

func TestMethodOverloadAndAbstractParams(t *testing.T) {
	src := `abstract class Handler {
  abstract process(input: string): void;
}
class Impl extends Handler {
  parse(input: string): number;
  parse(input: string, strict?: boolean): number {
    return strict ? 1 : input.length;
  }
  process(input: string) {
    console.log(input);
  }
}
new Impl();
`
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()))
}

func TestForOfIterationVariable(t *testing.T) {
	src := `function hasItems(items: string[]) {
  for (const item of items) {
    return true;
  }
  return false;
}
hasItems([]);
`
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()))
}

func TestForInBareReturnBody(t *testing.T) {
	src := `function hasKeys(obj: Record<string, string>) {
  for (const key in obj) return true;
  return false;
}
hasKeys({});
`
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()))
}

func TestForOfWorkingBodyReported(t *testing.T) {
	src := `function count(items: string[]) {
  let n = 0;
  for (const item of items) {
    n += 1;
  }
  return n;
}
count([]);
`
	// the body does real work, so the unused iterator is a defect
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()), "item")
}

func TestMappedTypeKeyExempt(t *testing.T) {
	src := `type Flags<T> = { [K in keyof T]: boolean };
export type FeatureFlags = Flags<{ dark: true }>;
`
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()))
}

func TestOrdinaryTypeParameterReported(t *testing.T) {
	src := `function first<T, U>(list: T[]): T {
  return list[0];
}
first<number, string>([1]);
`
	findings := analyzeSnippet(t, src, DefaultOptions())

	wantNames(t, findings, "U")
	if findings[0].Kind != KindTypeParameter {
		t.Errorf("kind = %s, want %s", findings[0].Kind, KindTypeParameter)
	}
}

func TestAmbientDeclarationsExempt(t *testing.T) {
	src := `declare const env: string;
declare function boot(): void;
declare class Widget {}
`
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()))
}

func TestAmbientNamespaceExempt(t *testing.T) {
	src := `declare namespace Legacy {
  const version: string;
  function setup(flag: boolean): void;
}
`
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()))
}

func TestPlainNamespaceReported(t *testing.T) {
	src := `namespace Util {
  export const helper = 1;
}
`
	findings := analyzeSnippet(t, src, DefaultOptions())

	wantNames(t, findings, "Util")
	if findings[0].Kind != KindNamespace {
		t.Errorf("kind = %s, want %s", findings[0].Kind, KindNamespace)
	}
}

func TestVarsLocalExemptsRootVars(t *testing.T) {
	src := `var cachedTotal = 0;
const rootConst = 1;
function recompute() {
  var scratch = 0;
}
recompute();
`
	opts := DefaultOptions()
	opts.Vars = VarsLocal

	// only var declarations in the root scope are exempt
	wantNames(t, analyzeSnippet(t, src, opts), "rootConst", "scratch")

	wantNames(t, analyzeSnippet(t, src, DefaultOptions()),
		"cachedTotal", "rootConst", "scratch")
}

func TestVarsIgnorePattern(t *testing.T) {
	src := `const _internal = 1;
const leftover = 2;
`
	opts := DefaultOptions()
	opts.VarsIgnorePattern = regexp.MustCompile("^_")

	wantNames(t, analyzeSnippet(t, src, opts), "leftover")
}

func TestArgsIgnorePattern(t *testing.T) {
	src := `function f(_a: number, b: number) {}
f(1, 2);
`
	opts := DefaultOptions()
	opts.ArgsIgnorePattern = regexp.MustCompile("^_")

	wantNames(t, analyzeSnippet(t, src, opts), "b")
}

func TestCaughtErrorsIgnorePattern(t *testing.T) {
	src := `try {
  JSON.parse("{");
} catch (_err) {}
`
	opts := DefaultOptions()
	opts.CaughtErrorsIgnorePattern = regexp.MustCompile("^_")

	wantNames(t, analyzeSnippet(t, src, opts))
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()), "_err")
}

func TestCaughtErrorsNone(t *testing.T) {
	src := `try {
  JSON.parse("{");
} catch (err) {}
`
	opts := DefaultOptions()
	opts.CaughtErrors = CaughtNone

	wantNames(t, analyzeSnippet(t, src, opts))

	findings := analyzeSnippet(t, src, DefaultOptions())
	wantNames(t, findings, "err")
	if findings[0].Kind != KindCatchParam {
		t.Errorf("kind = %s, want %s", findings[0].Kind, KindCatchParam)
	}
	if got := findings[0].Message(); got != "'err' is caught but never used." {
		t.Errorf("Message() = %q", got)
	}
}

func TestDestructuredArrayIgnorePattern(t *testing.T) {
	src := `const [_first, second] = pair;
console.log(second);
`
	opts := DefaultOptions()
	opts.DestructuredArrayIgnorePattern = regexp.MustCompile("^_")

	wantNames(t, analyzeSnippet(t, src, opts))
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()), "_first")
}

func TestIgnoredArrayElementDoesNotShieldEarlierParams(t *testing.T) {
	src := `function g(a: number, [_unused]: number[]) {}
g(1, [2]);
`
	opts := DefaultOptions()
	opts.DestructuredArrayIgnorePattern = regexp.MustCompile("^_")

	// the later parameter only binds an ignored name, so it does not
	// count as used when deciding whether a may be skipped
	wantNames(t, analyzeSnippet(t, src, opts), "a")
}

func TestIgnoreRestSiblings(t *testing.T) {
	src := `const { id, ...attrs } = record;
console.log(attrs);
`
	opts := DefaultOptions()
	opts.IgnoreRestSiblings = true

	wantNames(t, analyzeSnippet(t, src, opts))
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()), "id")
}

func TestRestSiblingProbeOnlyCountsRestBinding(t *testing.T) {
	src := `function pickRest(first: number, { keep, ...spread }: Record<string, number>) {
  return spread;
}
pickRest(1, {});
`
	opts := DefaultOptions()
	opts.IgnoreRestSiblings = true

	// spread is used, so first stays exempt; keep is excused as a rest
	// sibling
	wantNames(t, analyzeSnippet(t, src, opts))

	wantNames(t, analyzeSnippet(t, src, DefaultOptions()), "keep")
}

func TestFunctionAndClassExpressionsExempt(t *testing.T) {
	src := `const run = function task() {};
const Type = class Impl {};
run();
export default Type;
`
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()))
}

func TestFunctionAndClassDeclarationsReported(t *testing.T) {
	src := `function orphan() {}
class Orphan {}
`
	findings := analyzeSnippet(t, src, DefaultOptions())

	wantNames(t, findings, "orphan", "Orphan")
	if findings[0].Kind != KindFunction {
		t.Errorf("kind = %s, want %s", findings[0].Kind, KindFunction)
	}
	if findings[1].Kind != KindClass {
		t.Errorf("kind = %s, want %s", findings[1].Kind, KindClass)
	}
}

func TestUnusedImports(t *testing.T) {
	src := `import { render, unused } from "./ui";
import missing from "./missing";
import * as ns from "./ns";
render(ns);
`
	findings := analyzeSnippet(t, src, DefaultOptions())

	wantNames(t, findings, "unused", "missing")
	for _, f := range findings {
		if f.Kind != KindImport {
			t.Errorf("%s kind = %s, want %s", f.Name, f.Kind, KindImport)
		}
	}
	if got := findings[0].Message(); got != "'unused' is imported but never used." {
		t.Errorf("Message() = %q", got)
	}
}

func TestTypeOnlyDeclarationsReported(t *testing.T) {
	src := `enum Color { Red }
interface Shape {
  area(): number;
}
type Alias = string;
`
	findings := analyzeSnippet(t, src, DefaultOptions())

	wantNames(t, findings, "Color", "Shape", "Alias")
	wantKinds := []BindingKind{KindEnum, KindInterface, KindTypeAlias}
	for i, f := range findings {
		if f.Kind != wantKinds[i] {
			t.Errorf("%s kind = %s, want %s", f.Name, f.Kind, wantKinds[i])
		}
	}
}

func TestExportedBindingsAreUsed(t *testing.T) {
	src := `export const api = {};
export function helper() {}
export class Service {}
`
	wantNames(t, analyzeSnippet(t, src, DefaultOptions()))
}

func TestWriteOnlyVariableReported(t *testing.T) {
	src := `let counter = 0;
counter = 1;
`
	findings := analyzeSnippet(t, src, DefaultOptions())

	wantNames(t, findings, "counter")
	if got := findings[0].Message(); got != "'counter' is assigned a value but never used." {
		t.Errorf("Message() = %q", got)
	}
}

func TestFindingPositionsAreOneBased(t *testing.T) {
	src := `const a = 1;
const unusedValue = 2;
console.log(a);
`
	findings := analyzeSnippet(t, src, DefaultOptions())

	wantNames(t, findings, "unusedValue")
	f := findings[0]
	if f.Line != 2 {
		t.Errorf("Line = %d, want 2", f.Line)
	}
	if f.Column != 7 {
		t.Errorf("Column = %d, want 7", f.Column)
	}
	if f.EndColumn != 18 {
		t.Errorf("EndColumn = %d, want 18", f.EndColumn)
	}
	if f.File != "snippet.ts" {
		t.Errorf("File = %q, want snippet.ts", f.File)
	}
}

func TestJSXElementNamesCountAsReads(t *testing.T) {
	src := `import { Card } from "./card";
import { Badge } from "./badge";
const Title = () => <h1>hello</h1>;
export const Page = () => (
  <Card>
    <Title />
  </Card>
);
`
	a := New(WithOptions(DefaultOptions()))
	defer a.Close()

	findings, err := a.AnalyzeSource([]byte(src), "snippet.tsx")
	if err != nil {
		t.Fatalf("AnalyzeSource() error: %v", err)
	}

	// Card and Title are referenced only as markup; Badge never is.
	wantNames(t, findings, "Badge")
}

func TestRepeatedAnalysisIsDeterministic(t *testing.T) {
	src := `import { helper } from "./helper";
function compute(a: number, b: number, c: number) {
  return b;
}
const leftover = compute(1, 2, 3);
try {
  compute(4, 5, 6);
} catch (err) {}
`
	first := analyzeSnippet(t, src, DefaultOptions())
	second := analyzeSnippet(t, src, DefaultOptions())

	wantNames(t, first, "helper", "c", "leftover", "err")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("findings differ across runs:\n%v\n%v", first, second)
	}
}
