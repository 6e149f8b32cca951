package loader

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/nathoo/skirmish/engine/factory"
	"github.com/nathoo/skirmish/engine/rules"
	"github.com/nathoo/skirmish/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// generatedName matches the names Populate hands out.
var generatedName = regexp.MustCompile(`^(Squirrel|Werewolf|Druid)_[0-9]+$`)

// validate checks the compiled scenario for consistency. Warnings are kept
// on the scenario; errors fail the load.
func validate(sc *Scenario) error {
	ve := &ValidationError{}

	if sc.Distance < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"arena distance %v must not be negative", sc.Distance))
	}

	names := map[string]bool{}
	var kinds []types.Kind
	hordes := 0
	population := 0

	for _, st := range sc.Steps {
		switch {
		case st.NPC != nil:
			p := st.NPC
			population++
			kinds = append(kinds, p.Kind)

			if err := factory.ValidateName(p.Name); err != nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf("npc %q: %v", p.Name, err))
			}
			if names[p.Name] {
				ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate npc name %q", p.Name))
			}
			names[p.Name] = true

			if !sc.Bounds.Contains(p.Point) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"npc %q at [%d,%d] is outside the arena 0..%d x 0..%d",
					p.Name, p.Point.X, p.Point.Y, sc.Bounds.MaxX, sc.Bounds.MaxY))
			}
			if hordes > 0 && generatedName.MatchString(p.Name) {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"npc %q looks like a generated horde name and may collide", p.Name))
			}

		case st.Horde != nil:
			hordes++
			if st.Horde.Count <= 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"horde count %d must be positive", st.Horde.Count))
			}
			population += st.Horde.Count

		case st.Fight != nil:
			if *st.Fight < 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"fight distance %v must not be negative", *st.Fight))
			}
			if population < 2 {
				ve.Warnings = append(ve.Warnings,
					"fight declared with fewer than two npcs in the arena")
			}
		}
	}

	if population == 0 {
		ve.Warnings = append(ve.Warnings, "scenario places no npcs")
	} else if hordes == 0 && len(rules.Predators(kinds)) == 0 {
		ve.Warnings = append(ve.Warnings, "no predators in the scenario, battles will have no kills")
	}

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	sc.Warnings = ve.Warnings

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
