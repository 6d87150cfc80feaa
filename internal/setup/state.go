package setup

import (
	"fmt"
	"strings"
)

// State is a step of the bootstrap.
type State int

const (
	StateStart State = iota
	StateMapped
	StatePayloadLocated
	StateSpaceVerified
	StateExtracted
	StateLaunched
	StateCleanedUp
)

var stateNames = [...]string{
	StateStart:          "start",
	StateMapped:         "mapped",
	StatePayloadLocated: "payload-located",
	StateSpaceVerified:  "space-verified",
	StateExtracted:      "extracted",
	StateLaunched:       "launched",
	StateCleanedUp:      "cleaned-up",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Policy selects what is extracted and what the updater is pointed at.
type Policy int

const (
	// PolicyUpdaterAndPackage extracts the updater and writes the whole
	// package next to it; the updater gets the package path.
	PolicyUpdaterAndPackage Policy = iota
	// PolicyUpdaterOnly extracts the updater; the updater gets the host
	// executable path.
	PolicyUpdaterOnly
	// PolicySetupOffset is PolicyUpdaterOnly plus the payload offset, so
	// the updater reads the package straight out of the host executable.
	PolicySetupOffset
	// PolicyExtractAll extracts the whole package into a directory and runs
	// the updater from there with --install.
	PolicyExtractAll
)

var policyNames = map[Policy]string{
	PolicyUpdaterAndPackage: "package",
	PolicyUpdaterOnly:       "updater",
	PolicySetupOffset:       "offset",
	PolicyExtractAll:        "extract-all",
}

func (p Policy) String() string {
	if n, ok := policyNames[p]; ok {
		return n
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// PolicyNames lists the accepted policy names.
func PolicyNames() []string {
	return []string{"package", "updater", "offset", "extract-all"}
}

// ParsePolicy maps a configured name to a Policy. The empty string selects
// the default.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PolicyUpdaterAndPackage, nil
	}
	for p, n := range policyNames {
		if n == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown extraction policy %q (want one of %s)", s, strings.Join(PolicyNames(), ", "))
}
