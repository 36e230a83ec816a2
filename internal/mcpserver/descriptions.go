package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// how to interpret results, and key option values.

func describeCheckUnused() string {
	return `Finds declared bindings that are never read in JavaScript and TypeScript sources: variables, parameters, functions, classes, imports, enums, interfaces, type aliases, and type parameters.

USE WHEN:
- Cleaning up a file or module before review
- Auditing a codebase for dead declarations after a refactor
- Verifying that removing an export did not strand its helpers
- Checking whether ignore patterns are tuned correctly

INTERPRETING RESULTS:
- Each finding names the binding, its kind, and its declaration span
- kind=parameter: only parameters after the last used one are reported under the default after-used mode
- kind=import: the import specifier is never referenced as a value or type
- kind=catch: the catch clause parameter is never read
- Bindings prefixed to match an ignore pattern (commonly ^_) are exempt
- files_skipped counts unreadable or oversized files, not failures
- cache_hits shows how many results came from the content-addressed cache

OPTIONS:
- args: after-used (default) | all | none
- vars: all (default) | local
- caught_errors: all (default) | none
- ignore_rest_siblings: exempt bindings next to a ...rest element
- *_ignore_pattern: regexes exempting matching names

METRICS RETURNED:
- Findings: file, name, kind, line, column, end_line, end_column
- Summary: total findings, counts by kind, per-file distribution (avg, p50, p90, max)
- files_analyzed, files_skipped, cache_hits, per-file errors`
}

func describeScanFiles() string {
	return `Lists the source files the unused-binding check would consider under the given paths.

USE WHEN:
- Verifying which files the checker will look at before running it
- Debugging why a file is not being checked (extension, ignore file, excludes)
- Sizing a run before committing to a full check

INTERPRETING RESULTS:
- Only files with lintable extensions are listed (.js, .jsx, .mjs, .cjs, .ts, .tsx, .mts, .cts)
- Minified files (.min. in the name) and excluded directories are omitted
- Ignore-file patterns and configured exclude globs are honored
- A missing file in the list means an exclude rule matched it

METRICS RETURNED:
- files: absolute paths in discovery order
- total: file count
- by_language: counts per detected language (typescript, tsx, javascript)`
}
