package unused

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ArgsMode controls which function parameters are checked.
type ArgsMode string

const (
	// ArgsAfterUsed checks only parameters that come after the last used
	// parameter in the same list.
	ArgsAfterUsed ArgsMode = "after-used"
	// ArgsAll checks every parameter.
	ArgsAll ArgsMode = "all"
	// ArgsNone exempts parameters entirely.
	ArgsNone ArgsMode = "none"
)

// VarsMode controls which variables are checked.
type VarsMode string

const (
	// VarsAll checks every variable.
	VarsAll VarsMode = "all"
	// VarsLocal exempts var-declared variables in the root scope.
	VarsLocal VarsMode = "local"
)

// CaughtMode controls whether catch clause parameters are checked.
type CaughtMode string

const (
	// CaughtAll checks catch parameters.
	CaughtAll CaughtMode = "all"
	// CaughtNone exempts catch parameters.
	CaughtNone CaughtMode = "none"
)

// ParseArgsMode converts a configuration string into an ArgsMode.
func ParseArgsMode(s string) (ArgsMode, error) {
	switch s {
	case "", string(ArgsAfterUsed):
		return ArgsAfterUsed, nil
	case string(ArgsAll):
		return ArgsAll, nil
	case string(ArgsNone):
		return ArgsNone, nil
	default:
		return "", fmt.Errorf("invalid args mode: %q (expected after-used, all, or none)", s)
	}
}

// ParseVarsMode converts a configuration string into a VarsMode.
func ParseVarsMode(s string) (VarsMode, error) {
	switch s {
	case "", string(VarsAll):
		return VarsAll, nil
	case string(VarsLocal):
		return VarsLocal, nil
	default:
		return "", fmt.Errorf("invalid vars mode: %q (expected all or local)", s)
	}
}

// ParseCaughtMode converts a configuration string into a CaughtMode.
func ParseCaughtMode(s string) (CaughtMode, error) {
	switch s {
	case "", string(CaughtAll):
		return CaughtAll, nil
	case string(CaughtNone):
		return CaughtNone, nil
	default:
		return "", fmt.Errorf("invalid caughtErrors mode: %q (expected all or none)", s)
	}
}

// Options configures which unused bindings are reported.
type Options struct {
	// Args selects how function parameters are treated.
	Args ArgsMode
	// Vars selects how variables are treated.
	Vars VarsMode
	// CaughtErrors selects how catch clause parameters are treated.
	CaughtErrors CaughtMode
	// IgnoreRestSiblings exempts bindings whose object pattern also
	// contains a rest element.
	IgnoreRestSiblings bool
	// VarsIgnorePattern exempts variables whose name matches.
	VarsIgnorePattern *regexp.Regexp
	// ArgsIgnorePattern exempts parameters whose name matches.
	ArgsIgnorePattern *regexp.Regexp
	// CaughtErrorsIgnorePattern exempts catch parameters whose name matches.
	CaughtErrorsIgnorePattern *regexp.Regexp
	// DestructuredArrayIgnorePattern exempts bindings introduced by array
	// destructuring whose name matches.
	DestructuredArrayIgnorePattern *regexp.Regexp
}

// DefaultOptions returns the baseline configuration: all variables and catch
// parameters are checked, parameters only after the last used one.
func DefaultOptions() Options {
	return Options{
		Args:         ArgsAfterUsed,
		Vars:         VarsAll,
		CaughtErrors: CaughtAll,
	}
}

// Fingerprint returns a stable hash of the option set, used to key cached
// results so that a configuration change invalidates prior entries.
func (o Options) Fingerprint() string {
	h := xxhash.New()
	_, _ = h.WriteString(string(o.Args))
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(string(o.Vars))
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(string(o.CaughtErrors))
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(strconv.FormatBool(o.IgnoreRestSiblings))
	for _, re := range []*regexp.Regexp{
		o.VarsIgnorePattern,
		o.ArgsIgnorePattern,
		o.CaughtErrorsIgnorePattern,
		o.DestructuredArrayIgnorePattern,
	} {
		_, _ = h.WriteString("|")
		if re != nil {
			_, _ = h.WriteString(re.String())
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
