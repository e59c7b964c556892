package amendment

// Rules provides a read-only view of which amendments are enabled for
// transaction processing. It is typically loaded from the Amendments entry
// in a specific ledger.
type Rules struct {
	enabled map[[32]byte]bool
}

// NewRules creates a new Rules instance with the given enabled amendments.
func NewRules(enabledIDs [][32]byte) *Rules {
	r := &Rules{
		enabled: make(map[[32]byte]bool, len(enabledIDs)),
	}
	for _, id := range enabledIDs {
		r.enabled[id] = true
	}
	return r
}

// Enabled returns true if the amendment with the given ID is enabled.
// This is the primary method used during transaction processing.
func (r *Rules) Enabled(featureID [32]byte) bool {
	return r.enabled[featureID]
}

// EnabledCount returns the number of enabled amendments.
func (r *Rules) EnabledCount() int {
	return len(r.enabled)
}

// EmptyRules returns Rules with no amendments enabled.
func EmptyRules() *Rules {
	return NewRules(nil)
}

// AllSupportedRules returns Rules with all supported amendments enabled.
// This is useful for testing.
func AllSupportedRules() *Rules {
	enabledIDs := make([][32]byte, 0)
	for _, f := range AllFeatures() {
		if f.Supported == SupportedYes {
			enabledIDs = append(enabledIDs, f.ID)
		}
	}
	return NewRules(enabledIDs)
}

// RulesBuilder allows building custom Rules instances.
type RulesBuilder struct {
	enabled map[[32]byte]bool
}

// NewRulesBuilder creates a new RulesBuilder.
func NewRulesBuilder() *RulesBuilder {
	return &RulesBuilder{enabled: make(map[[32]byte]bool)}
}

// Enable adds an amendment to the enabled set.
func (b *RulesBuilder) Enable(featureID [32]byte) *RulesBuilder {
	b.enabled[featureID] = true
	return b
}

// EnableByName adds an amendment by name to the enabled set.
func (b *RulesBuilder) EnableByName(name string) *RulesBuilder {
	if f := GetFeatureByName(name); f != nil {
		b.enabled[f.ID] = true
	}
	return b
}

// Disable removes an amendment from the enabled set.
func (b *RulesBuilder) Disable(featureID [32]byte) *RulesBuilder {
	delete(b.enabled, featureID)
	return b
}

// FromRules initializes the builder from an existing Rules.
func (b *RulesBuilder) FromRules(rules *Rules) *RulesBuilder {
	for id := range rules.enabled {
		b.enabled[id] = true
	}
	return b
}

// Build creates the Rules instance.
func (b *RulesBuilder) Build() *Rules {
	enabledIDs := make([][32]byte, 0, len(b.enabled))
	for id := range b.enabled {
		enabledIDs = append(enabledIDs, id)
	}
	return NewRules(enabledIDs)
}
