package editorial

import (
	"fmt"
	"strings"
	"time"
)

// Topic is one entry of the fixed editorial rotation.
type Topic struct {
	Title string
	Angle string
}

// Calendar is an ordered, fixed list of topics cycled by date offset from an
// anchor. The order defines the rotation sequence and never changes at runtime.
type Calendar struct {
	Epoch  time.Time
	Topics []Topic
}

// defaultTopics is the evergreen 30-day editorial calendar.
var defaultTopics = []Topic{
	{"Holistic Wellness Benefits of Saffron for Cardiovascular Support", "Highlight antioxidant and anti-inflammatory effects relevant to Ukraine and the wider EU."},
	{"Saffron for Mood Support and Stress Relief Backed by Clinical Research", "Cover serotonin pathways, daily dosing guidance, and responsible sourcing from Voloskyi Saffron."},
	{"Showcase Recipes: Ukrainian and Mediterranean Classics Elevated with Saffron", "Provide step-by-step dishes and pairing tips for home cooks and restaurants."},
	{"How Saffron Enhances Cognitive Performance and Focus", "Summarise neuroscience findings and practical routines for professionals."},
	{"Beauty Formulations: Saffron for Radiant Skin and Natural Glow", "Explore cosmeceutical applications, serums, and spa treatments popular in Europe."},
	{"Crafting Saffron Beverages for Cafés, Bars, and Concept Stores", "Detail signature lattes, lemonades, and mocktails with pricing guidance."},
	{"Understanding Saffron Grades, ISO Standards, and Quality Assurance", "Explain colouring strength, flavour metrics, and how Voloskyi Saffron is tested."},
	{"From Field to Jar: The Voloskyi Saffron Supply Story", "Describe cultivation in Ukraine, traceability, and sustainability commitments."},
	{"Saffron in Integrative and Functional Medicine", "Review clinical trials, dosage forms, and how clinicians incorporate saffron."},
	{"Pastry Innovation: Desserts and Bakes with Saffron", "Share patisserie ideas, infusion techniques, and flavour balancing."},
	{"Why Saffron Prices Fluctuate on the European Market", "Analyse harvest yields, logistics, and premium positioning strategies."},
	{"Strengthening Immunity with Saffron During Seasonal Shifts", "Blend herbalist perspectives with scientific references for European climates."},
	{"Designing Herbal Tea Blends with Saffron", "Combine botanicals, steeping ratios, and retail packaging inspiration."},
	{"How Chefs Engineer Menus Around Saffron", "Share costings, plating ideas, and sensory storytelling for diners."},
	{"Saffron and Mental Wellbeing: Serotonin and Dopamine Insights", "Connect neurochemistry with practical wellness rituals for busy professionals."},
	{"Home Storage and Brewing Techniques for Premium Saffron", "Provide care tips, bloom methods, and mistakes to avoid."},
	{"Athletic Recovery and Performance Support with Saffron", "Discuss studies on endurance, inflammation, and supplementation timing."},
	{"Inside the Lab: Analysing Crocin, Safranal, and Picrocrocin", "Break down chemical markers and how they influence flavour and health."},
	{"Comparing Saffron Origins: Iran, Spain, Greece, and Ukraine", "Guide buyers on terroir, regulatory landscapes, and flavour profiles."},
	{"Saffron as a Premium Gift for Corporate and Holiday Occasions", "Offer packaging ideas, messaging, and personalization trends."},
	{"Plant-Based Cooking Elevated with Saffron", "Show vegan recipes, protein pairings, and nutrition boosts."},
	{"Taste Science: How Saffron Influences Aroma and Palate", "Explain sensory pathways, pairing matrices, and tasting rituals."},
	{"Evening Rituals: Saffron for Sleep Hygiene and Relaxation", "Detail teas, diffusers, and mindfulness routines with SEO focus."},
	{"Mixology Spotlight: Saffron Syrups and Signature Cocktails", "Share bar techniques, ingredient sourcing, and pricing tips."},
	{"Traditional Medicine Perspectives on Saffron", "Cover Ayurveda, Persian, and European herbal traditions with modern context."},
	{"Market Outlook: Investing in Saffron and Specialty Spices", "Provide data on demand, export routes, and retail opportunities."},
	{"Gut Health Synergies with Saffron and Prebiotic Ingredients", "Discuss microbiome research and product formulations."},
	{"Crafting Saffron-Infused Oils, Butters, and Condiments", "Teach infusion safety, shelf life, and culinary applications."},
	{"Sustainability and Ethical Sourcing of Saffron", "Highlight fair labour, traceability, and eco packaging."},
	{"Seasonal Celebrations: Saffron Recipes for European Holidays", "Feature festive menus, cultural insights, and hosting tips."},
}

// DefaultCalendar returns the built-in rotation anchored at the given epoch.
func DefaultCalendar(epoch time.Time) *Calendar {
	return &Calendar{Epoch: epoch, Topics: defaultTopics}
}

// Select resolves the topic for a calendar date. The rotation is periodic
// with period len(Topics); dates before the epoch still map into [0, N)
// because the day offset is floor-reduced, not truncated.
func (c *Calendar) Select(today time.Time) (int, Topic) {
	n := len(c.Topics)
	elapsed := daysBetween(c.Epoch, today)
	index := ((elapsed % n) + n) % n
	return index, c.Topics[index]
}

// numberedLines renders the rotation as "1. Title — Angle" lines for the
// editorial system prompt.
func (c *Calendar) numberedLines() string {
	lines := make([]string, 0, len(c.Topics))
	for i, t := range c.Topics {
		lines = append(lines, fmt.Sprintf("%d. %s — %s", i+1, t.Title, t.Angle))
	}
	return strings.Join(lines, "\n")
}

// daysBetween counts whole calendar days from a to b, negative when b is
// earlier. Time-of-day and timezone are discarded first so DST transitions
// cannot produce off-by-one offsets.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}
