package amendment

// Feature IDs for all amendments this code knows about.
var (
	FeatureFix1543                     = FeatureID("fix1543")
	FeatureDepositAuth                 = FeatureID("DepositAuth")
	FeatureDepositPreauth              = FeatureID("DepositPreauth")
	FeaturePaychanAndEscrowForTokens   = FeatureID("PaychanAndEscrowForTokens")
	FeatureFixPayChanRecipientOwnerDir = FeatureID("fixPayChanRecipientOwnerDir")
	FeatureHooks                       = FeatureID("Hooks")
	FeatureRequireFullyCanonicalSig    = FeatureID("RequireFullyCanonicalSig")
)

var allFeatures = []Feature{
	{Name: "fix1543", ID: FeatureFix1543, Supported: SupportedYes, Vote: VoteDefaultYes},
	{Name: "DepositAuth", ID: FeatureDepositAuth, Supported: SupportedYes, Vote: VoteDefaultYes},
	{Name: "DepositPreauth", ID: FeatureDepositPreauth, Supported: SupportedYes, Vote: VoteDefaultYes},
	{Name: "PaychanAndEscrowForTokens", ID: FeaturePaychanAndEscrowForTokens, Supported: SupportedYes, Vote: VoteDefaultNo},
	{Name: "fixPayChanRecipientOwnerDir", ID: FeatureFixPayChanRecipientOwnerDir, Supported: SupportedYes, Vote: VoteDefaultYes},
	{Name: "Hooks", ID: FeatureHooks, Supported: SupportedYes, Vote: VoteDefaultNo},
	{Name: "RequireFullyCanonicalSig", ID: FeatureRequireFullyCanonicalSig, Supported: SupportedYes, Vote: VoteDefaultYes},
}

// AllFeatures returns all features known to this build.
func AllFeatures() []Feature {
	out := make([]Feature, len(allFeatures))
	copy(out, allFeatures)
	return out
}

// GetFeatureByName returns the feature with the given name, or nil.
func GetFeatureByName(name string) *Feature {
	for i := range allFeatures {
		if allFeatures[i].Name == name {
			f := allFeatures[i]
			return &f
		}
	}
	return nil
}
