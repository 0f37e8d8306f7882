package xpobj

import (
	"fmt"
	"strconv"
)

// Attribute is an ATTR_* directive with its raw parameters, in file order.
type Attribute struct {
	Command string
	Params  []string
}

// attrArity is the accepted parameter range of a known attribute.
type attrArity struct {
	min, max int
	usage    string
}

// Known attributes with a checked field count. ATTR_no_blend takes an
// optional alpha cutoff and ATTR_hard an optional surface name.
var knownAttributes = map[string]attrArity{
	"ATTR_LOD":            {2, 2, "ATTR_LOD <near> <far>"},
	"ATTR_shiny_rat":      {1, 1, "ATTR_shiny_rat <ratio>"},
	"ATTR_reset":          {0, 0, "ATTR_reset"},
	"ATTR_poly_os":        {1, 1, "ATTR_poly_os <n>"},
	"ATTR_poly_on":        {1, 1, "ATTR_poly_on <n>"},
	"ATTR_cockpit_region": {1, 1, "ATTR_cockpit_region <region>"},
	"ATTR_cockpit_device": {4, 4, "ATTR_cockpit_device <name> <bus> <channel> <auto_adjust>"},
	"ATTR_shadow_blend":   {1, 1, "ATTR_shadow_blend <ratio>"},
	"ATTR_no_blend":       {0, 1, "ATTR_no_blend [<cutoff>]"},
	"ATTR_hard":           {0, 1, "ATTR_hard [<surface>]"},
	"ATTR_hard_deck":      {0, 1, "ATTR_hard_deck [<surface>]"},
}

// NewAttribute validates a directive against the known attribute table.
// Unknown directives are kept without parameters.
func NewAttribute(command string, args []string) (Attribute, error) {
	arity, ok := knownAttributes[command]
	if !ok {
		return Attribute{Command: command}, nil
	}
	if len(args) < arity.min || len(args) > arity.max {
		return Attribute{}, malformed(arity.usage, args)
	}
	var params []string
	if len(args) > 0 {
		params = append(params, args...)
	}
	return Attribute{Command: command, Params: params}, nil
}

// LOD is a level-of-detail distance range.
type LOD struct {
	Near int
	Far  int
}

// ParseLOD reads ATTR_LOD <near> <far>. The bounds must differ.
func ParseLOD(args []string) (LOD, error) {
	if len(args) != 2 {
		return LOD{}, malformed(knownAttributes["ATTR_LOD"].usage, args)
	}
	near, err := strconv.Atoi(args[0])
	if err != nil {
		return LOD{}, fmt.Errorf("%w: ATTR_LOD near %q", ErrMalformedRecord, args[0])
	}
	far, err := strconv.Atoi(args[1])
	if err != nil {
		return LOD{}, fmt.Errorf("%w: ATTR_LOD far %q", ErrMalformedRecord, args[1])
	}
	if near == far {
		return LOD{}, fmt.Errorf("%w: ATTR_LOD near and far must differ", ErrMalformedRecord)
	}
	return LOD{Near: near, Far: far}, nil
}

func cloneAttributes(attrs []Attribute) []Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attribute, len(attrs))
	copy(out, attrs)
	return out
}
