package persona

// Tier labels the priority band a rule belongs to. Bands are checked in
// declaration order, which is not numeric order.
type Tier string

const (
	TierDominant Tier = "tier1_dominant"
	TierCombo    Tier = "tier3_combination"
	TierEdge     Tier = "tier4_edge"
	TierFixation Tier = "fixation"
	TierBalanced Tier = "tier2_balanced"
	TierDefault  Tier = "default"
)

// Rule is one row of the cascade.
type Rule struct {
	Name    string
	Tier    Tier
	Match   func(Stats) bool
	Persona Descriptor
}

type Classifier struct {
	rules    []Rule
	fallback Descriptor
}

var defaultClassifier = NewClassifier(DefaultRules())

func NewClassifier(r Rules) *Classifier {
	r = r.WithDefaults()
	single := func(slug string, threshold int) func(Stats) bool {
		return func(s Stats) bool { return s.Get(slug) > threshold }
	}
	pair := func(a, b string, threshold int) func(Stats) bool {
		return func(s Stats) bool { return s.Get(a)+s.Get(b) > threshold }
	}
	rules := []Rule{
		{Name: "fried", Tier: TierDominant, Match: single("fried", r.DominantThreshold), Persona: catalogue[KeyFriedWarrior]},
		{Name: "vegetable", Tier: TierDominant, Match: single("vegetable", r.DominantThreshold), Persona: catalogue[KeyGreenRabbit]},
		{Name: "dessert", Tier: TierDominant, Match: single("dessert", r.DominantThreshold), Persona: catalogue[KeySugarKing]},
		{Name: "coffee", Tier: TierDominant, Match: single("coffee", r.CoffeeThreshold), Persona: catalogue[KeyCaffeineHuman]},
		{Name: "meat", Tier: TierDominant, Match: single("meat", r.DominantThreshold), Persona: catalogue[KeyMeatHunter]},

		{Name: "fried+spicy", Tier: TierCombo, Match: pair("fried", "spicy", r.ComboThreshold), Persona: catalogue[KeySpicyFried]},
		{Name: "carbs+dessert", Tier: TierCombo, Match: pair("carbs", "dessert", r.ComboThreshold), Persona: catalogue[KeyCarbCitizen]},
		{Name: "meat+grilled", Tier: TierCombo, Match: pair("meat", "grilled", r.ComboThreshold), Persona: catalogue[KeyBBQMaster]},

		{Name: "water+vegetable", Tier: TierEdge, Match: pair("water", "vegetable", r.HermitThreshold), Persona: catalogue[KeyMountainHermit]},
		{Name: "coffee+dessert", Tier: TierEdge, Match: pair("coffee", "dessert", r.ComboThreshold), Persona: catalogue[KeyOfficeClassic]},

		{Name: "single_fixation", Tier: TierFixation, Match: func(s Stats) bool {
			n := 0
			for _, v := range s {
				if v > r.FixationThreshold {
					n++
				}
			}
			return n == 1
		}, Persona: catalogue[KeyFixation]},

		{Name: "balanced", Tier: TierBalanced, Match: func(s Stats) bool {
			return s.Max() <= r.BalancedMax
		}, Persona: catalogue[KeyZen]},
	}
	return &Classifier{rules: rules, fallback: catalogue[KeyBalanced]}
}

// Rules returns the cascade in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Classify returns the first matching rule's persona, or the default one.
// It never fails.
func (c *Classifier) Classify(stats Stats) Descriptor {
	d, _ := c.Explain(stats)
	return d
}

// Explain is Classify plus the name of the rule that fired ("default" when
// none did).
func (c *Classifier) Explain(stats Stats) (Descriptor, string) {
	for _, rule := range c.rules {
		if rule.Match(stats) {
			return rule.Persona, rule.Name
		}
	}
	return c.fallback, string(TierDefault)
}

// Classify runs the cascade with DefaultRules.
func Classify(stats Stats) Descriptor {
	return defaultClassifier.Classify(stats)
}
