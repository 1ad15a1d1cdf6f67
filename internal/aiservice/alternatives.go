package aiservice

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"vitaplan/internal/routine"
)

// AlternativeRequest asks the swap collaborator for one replacement
// candidate. Preference is one of the swap panel's options ("any", "vegan",
// "budget", "natural", "food-based", "non-gmo", "organic").
type AlternativeRequest struct {
	Item        routine.Item `json:"item"`
	Preference  string       `json:"preference"`
	HealthGoals []string     `json:"healthGoals"`
}

// GenerateAlternative proposes a replacement for one routine entry. With a
// configured API key the candidate comes from Gemini; otherwise the curated
// alternatives table serves as an offline fallback so the swap flow works
// without AI credentials. Either way the replacement keeps the original's
// time slot.
func (s *Service) GenerateAlternative(ctx context.Context, req AlternativeRequest) (routine.Item, error) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		return curatedAlternative(req)
	}

	prompt := fmt.Sprintf(alternativePromptTemplate,
		req.Item.Supplement,
		req.Item.TimeOfDay, req.Item.Time,
		req.Item.Instructions,
		strings.Join(req.HealthGoals, ", "),
		preferenceOrAny(req.Preference),
	)

	var alt routine.Item
	if err := generateAndParse(ctx, "Alternative", alternativeSystemPrompt, prompt, AlternativeSchema, &alt); err != nil {
		log.Warn().Err(err).Msg("Gemini alternative failed, falling back to curated table")
		return curatedAlternative(req)
	}
	if alt.Supplement == "" {
		return curatedAlternative(req)
	}

	alt.TimeOfDay = req.Item.TimeOfDay
	alt.Time = req.Item.Time
	return alt, nil
}

func preferenceOrAny(p string) string {
	if p == "" {
		return "any"
	}
	return p
}

// altTemplate is a curated replacement before the original's time slot is
// stamped onto it.
type altTemplate struct {
	supplement   string
	instructions string
	reasoning    string
	brand        string
}

// curatedAlternatives maps lowercase supplement-name fragments to known-good
// replacements.
var curatedAlternatives = map[string][]altTemplate{
	"vitamin d": {
		{
			supplement:   "Vitamin K2 (100mcg)",
			instructions: "Take once daily with a fatty meal for optimal absorption. Best paired with calcium-rich foods.",
			reasoning:    "Vitamin K2 works synergistically with vitamin D to support bone health by directing calcium to bones rather than soft tissues. It also supports cardiovascular health.",
			brand:        "Life Extension or NOW Foods",
		},
		{
			supplement:   "Cod Liver Oil (1000mg)",
			instructions: "Take one capsule with breakfast. Store in a cool place to prevent oxidation.",
			reasoning:    "Natural source of vitamins A and D plus omega-3 fatty acids. Supports immune function, bone health, and reduces inflammation.",
			brand:        "Nordic Naturals or Carlson",
		},
	},
	"fish oil": {
		{
			supplement:   "Algal Oil (500mg DHA/EPA)",
			instructions: "Take 1-2 capsules daily with food to minimize any aftertaste.",
			reasoning:    "Plant-based alternative to fish oil that provides similar omega-3 benefits. Supports brain health, reduces inflammation, and is suitable for vegetarians and vegans.",
			brand:        "Nordic Naturals or Deva",
		},
		{
			supplement:   "Flaxseed Oil (1000mg)",
			instructions: "Take 1-2 capsules with meals. Can also be used in salad dressings or smoothies.",
			reasoning:    "Rich in alpha-linolenic acid (ALA), a plant-based omega-3 that supports heart health and reduces inflammation. Budget-friendly alternative to fish oil.",
			brand:        "Barlean's or Spectrum Naturals",
		},
	},
	"magnesium": {
		{
			supplement:   "Calcium Citrate (500mg)",
			instructions: "Take with dinner or before bed. Can be taken without food unlike some other forms of calcium.",
			reasoning:    "Works synergistically with magnesium to support bone health, muscle function, and nervous system. Citrate form is better absorbed than carbonate forms.",
			brand:        "Solgar or Pure Encapsulations",
		},
		{
			supplement:   "Zinc Glycinate (15mg)",
			instructions: "Take with food to minimize stomach discomfort. Avoid taking with calcium supplements.",
			reasoning:    "Supports immune function, wound healing, and protein synthesis. Plays a role in over 300 enzymatic reactions in the body similar to magnesium.",
			brand:        "Thorne or Pure Encapsulations",
		},
	},
	"probiotic": {
		{
			supplement:   "Prebiotic Fiber (5g)",
			instructions: "Mix with water or add to smoothies. Start with a small dose and gradually increase to avoid gas or bloating.",
			reasoning:    "Feeds beneficial gut bacteria rather than introducing new ones. Supports digestive health, immunity, and helps existing beneficial bacteria flourish.",
			brand:        "Jarrow Formulas or Hyperbiotics",
		},
		{
			supplement:   "Fermented Foods (1 serving)",
			instructions: "Include a serving of kimchi, sauerkraut, kefir, or yogurt with meals daily.",
			reasoning:    "Natural source of probiotics with additional nutrients and enzymes. Supports gut health and provides a diverse array of beneficial bacteria.",
			brand:        "N/A - choose organic options when possible",
		},
	},
	"vitamin c": {
		{
			supplement:   "Quercetin (500mg)",
			instructions: "Take with meals to enhance absorption. Can be paired with vitamin C for enhanced effects.",
			reasoning:    "Powerful antioxidant and natural antihistamine. Supports immune function and has anti-inflammatory properties similar to vitamin C.",
			brand:        "Thorne or Pure Encapsulations",
		},
		{
			supplement:   "Whole Food Vitamin C (250mg)",
			instructions: "Take with or without food. Divide doses throughout the day for optimal absorption if taking higher amounts.",
			reasoning:    "Contains natural cofactors and bioflavonoids that enhance absorption and effectiveness compared to synthetic ascorbic acid.",
			brand:        "Garden of Life or MegaFood",
		},
	},
	"zinc": {
		{
			supplement:   "Copper Glycinate (2mg)",
			instructions: "Take with food to minimize stomach discomfort. Important to balance with zinc intake.",
			reasoning:    "Works in balance with zinc in the body. Supports immune function, collagen production, and iron metabolism.",
			brand:        "Pure Encapsulations or Thorne",
		},
		{
			supplement:   "Selenium (200mcg)",
			instructions: "Take with food once daily. Do not exceed recommended dosage as selenium can be toxic at high levels.",
			reasoning:    "Trace mineral that supports immune function and acts as an antioxidant. Works synergistically with zinc for thyroid function and immunity.",
			brand:        "NOW Foods or Life Extension",
		},
	},
}

// genericAlternatives serve when no name fragment matches.
var genericAlternatives = []altTemplate{
	{
		supplement:   "Multivitamin (Complete Formula)",
		instructions: "Take with breakfast or your largest meal of the day for optimal absorption of fat-soluble vitamins.",
		reasoning:    "Provides a broad spectrum of essential nutrients that can help fill multiple nutritional gaps. Contains various vitamins and minerals that support overall health.",
		brand:        "Thorne Basic Nutrients or Pure Encapsulations",
	},
	{
		supplement:   "Greens Powder (1 scoop)",
		instructions: "Mix with water or add to a smoothie. Best taken earlier in the day.",
		reasoning:    "Concentrated source of phytonutrients from various green vegetables and superfoods. Provides antioxidants and supports detoxification, immune function, and overall wellness.",
		brand:        "Athletic Greens or Amazing Grass",
	},
	{
		supplement:   "Adaptogenic Herb Blend (500mg)",
		instructions: "Take once or twice daily with or without food. Consistent daily use yields best results.",
		reasoning:    "Helps the body adapt to physical and mental stressors. Supports energy, mood, immune function, and overall resilience.",
		brand:        "Gaia Herbs or Himalaya",
	},
}

// curatedAlternative resolves a replacement from the offline table: match on
// a name fragment, narrow by preference when that still leaves candidates,
// then pick one at random.
func curatedAlternative(req AlternativeRequest) (routine.Item, error) {
	candidates := lookupAlternatives(req.Item.Supplement, req.Preference)
	if len(candidates) == 0 {
		return routine.Item{}, fmt.Errorf("no alternative available for %q", req.Item.Supplement)
	}

	chosen := candidates[rand.Intn(len(candidates))]
	return routine.Item{
		TimeOfDay:    req.Item.TimeOfDay,
		Supplement:   chosen.supplement,
		Instructions: chosen.instructions,
		Reasoning:    chosen.reasoning,
		Time:         req.Item.Time,
		Brand:        chosen.brand,
	}, nil
}

func lookupAlternatives(supplement, preference string) []altTemplate {
	name := strings.ToLower(routine.CleanName(supplement))

	candidates := genericAlternatives
	for key, alts := range curatedAlternatives {
		if strings.Contains(name, key) {
			candidates = alts
			break
		}
	}

	if preference != "" && preference != "any" {
		pref := strings.ToLower(preference)
		var preferred []altTemplate
		for _, alt := range candidates {
			if strings.Contains(strings.ToLower(alt.supplement), pref) ||
				strings.Contains(strings.ToLower(alt.reasoning), pref) ||
				strings.Contains(strings.ToLower(alt.instructions), pref) {
				preferred = append(preferred, alt)
			}
		}
		if len(preferred) > 0 {
			candidates = preferred
		}
	}

	return candidates
}
