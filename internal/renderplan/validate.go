package renderplan

import "github.com/example/scriptvoice/internal/character"

// Validate checks the structural invariants required of a
// RenderPlan before it can be scheduled: unique character IDs, unique
// line IDs, every line's CharacterID resolves to a declared character,
// every overlap's TargetLineID resolves to a declared line, line times
// are non-negative with end never preceding start, and speed
// multipliers stay within [0.5, 2.0].
func (p *RenderPlan) Validate() error {
	// An empty plan (no lines) is well-formed: it renders to a
	// RenderResult with an empty master of zero duration rather than
	// failing validation.
	chars := make(map[string]struct{}, len(p.Characters))
	for _, c := range p.Characters {
		if c.ID == "" {
			return invalid("character has empty ID")
		}
		if _, dup := chars[c.ID]; dup {
			return invalid("duplicate character ID %q", c.ID)
		}
		chars[c.ID] = struct{}{}
	}

	lines := make(map[string]struct{}, len(p.Lines))
	for _, l := range p.Lines {
		if l.ID == "" {
			return invalid("line has empty ID")
		}
		if _, dup := lines[l.ID]; dup {
			return invalid("duplicate line ID %q", l.ID)
		}
		lines[l.ID] = struct{}{}
	}

	for _, l := range p.Lines {
		if _, ok := chars[l.CharacterID]; !ok {
			return invalid("line %q references unknown character %q", l.ID, l.CharacterID)
		}
		if l.Timing.StartMs < 0 {
			return invalid("line %q start %dms is negative", l.ID, l.Timing.StartMs)
		}
		if l.Timing.EndMs != nil && *l.Timing.EndMs < l.Timing.StartMs {
			return invalid("line %q end %dms precedes start %dms", l.ID, *l.Timing.EndMs, l.Timing.StartMs)
		}
		if l.Timing.SpeedMultiplier != nil {
			s := *l.Timing.SpeedMultiplier
			if s < 0.5 || s > 2.0 {
				return invalid("line %q speed multiplier %.2f out of range [0.5, 2.0]", l.ID, s)
			}
		}
		if ov := l.Timing.Overlap; ov != nil {
			if _, ok := lines[ov.TargetLineID]; !ok {
				return invalid("line %q overlap references unknown target line %q", l.ID, ov.TargetLineID)
			}
			if ov.TargetLineID == l.ID {
				return invalid("line %q cannot overlap itself", l.ID)
			}
			if ov.VolumeAttenuation < 0 || ov.VolumeAttenuation > 1 {
				return invalid("line %q overlap volume attenuation %.2f out of range [0, 1]", l.ID, ov.VolumeAttenuation)
			}
		}
	}

	if p.GlobalSettings.MasterVolume < 0 || p.GlobalSettings.MasterVolume > 2 {
		return invalid("global master volume %.2f out of range [0, 2]", p.GlobalSettings.MasterVolume)
	}

	return nil
}

// CharacterByID resolves a character ID against the plan's registry.
// Absence means the plan failed Validate and should not have been
// scheduled.
func (p *RenderPlan) CharacterByID(id string) (character.Character, bool) {
	for _, c := range p.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return character.Character{}, false
}

// LineByID resolves a line ID against the plan's line list.
func (p *RenderPlan) LineByID(id string) (Line, bool) {
	for _, l := range p.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}
