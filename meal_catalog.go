package main

/* ─── Foods ──────────────────────────────────────────────────────────── */

// foodGroup is the slot component a food can fill.
type foodGroup string

const (
	groupStarch    foodGroup = "starch"
	groupProtein   foodGroup = "protein"
	groupLegume    foodGroup = "legume"
	groupVegetable foodGroup = "vegetable"
	groupFruit     foodGroup = "fruit"
	groupDairy     foodGroup = "dairy"
	groupFat       foodGroup = "fat"
	groupBeverage  foodGroup = "beverage"
	groupSnack     foodGroup = "snack"
)

// food is one catalog entry. Tags carry allergens (peanut, gluten, lactose,
// ...), diet markers (meat, fish, egg, dairy, honey, plant) and properties
// used for ranking (high_protein, low_gi, quick, ...).
type food struct {
	Name  string
	Group foodGroup
	Tags  []string
}

func (f food) hasTag(tags ...string) bool {
	for _, want := range tags {
		for _, t := range f.Tags {
			if t == want {
				return true
			}
		}
	}
	return false
}

func newFood(name string, group foodGroup, tags ...string) food {
	return food{Name: name, Group: group, Tags: tags}
}

// foodCatalog is the fixed candidate pool. Order matters: ties in ranking
// are broken by catalog position.
var foodCatalog = []food{
	// starch
	newFood("Whole-grain bread", groupStarch, "gluten", "wheat", "whole_grain", "high_fiber", "quick"),
	newFood("Whole-grain toast with peanut butter", groupStarch, "gluten", "wheat", "peanut", "quick", "high_protein"),
	newFood("Oatmeal", groupStarch, "oats", "whole_grain", "high_fiber", "low_gi"),
	newFood("Tapioca crepe", groupStarch, "quick", "high_carb"),
	newFood("Brown rice", groupStarch, "whole_grain", "high_fiber", "plant"),
	newFood("White rice", groupStarch, "high_carb", "plant"),
	newFood("Sweet potato", groupStarch, "low_gi", "high_fiber", "performance", "plant"),
	newFood("Whole-wheat pasta", groupStarch, "gluten", "wheat", "whole_grain", "mediterranean"),
	newFood("Quinoa", groupStarch, "whole_grain", "high_protein", "low_gi", "mediterranean", "plant"),
	newFood("Boiled cassava", groupStarch, "high_carb", "plant"),
	newFood("Granola with honey", groupStarch, "honey", "sugar", "tree_nut", "oats", "quick"),
	newFood("Wholemeal wrap", groupStarch, "gluten", "wheat", "quick"),

	// protein
	newFood("Grilled chicken breast", groupProtein, "meat", "high_protein", "low_calorie"),
	newFood("Lean ground beef", groupProtein, "meat", "high_protein"),
	newFood("Baked salmon", groupProtein, "fish", "omega3", "high_protein", "mediterranean"),
	newFood("Grilled tilapia", groupProtein, "fish", "high_protein", "low_calorie"),
	newFood("Tuna in water", groupProtein, "fish", "high_protein", "low_calorie", "quick"),
	newFood("Scrambled eggs", groupProtein, "egg", "high_protein", "quick"),
	newFood("Boiled eggs", groupProtein, "egg", "high_protein", "low_calorie", "quick"),
	newFood("Roast turkey breast", groupProtein, "meat", "high_protein", "low_calorie"),
	newFood("Turkey ham slices", groupProtein, "meat", "processed", "high_sodium", "quick"),
	newFood("Shrimp sautéed in olive oil", groupProtein, "shellfish", "seafood", "high_protein", "mediterranean"),
	newFood("Sardines", groupProtein, "fish", "omega3", "mediterranean"),
	newFood("Grilled tofu", groupProtein, "soy", "plant", "high_protein"),
	newFood("Tempeh", groupProtein, "soy", "plant", "high_protein"),
	newFood("Whey protein shake", groupProtein, "dairy", "lactose", "high_protein", "quick", "performance"),
	newFood("Pea protein shake", groupProtein, "plant", "high_protein", "quick", "performance"),

	// legume
	newFood("Black beans", groupLegume, "plant", "high_fiber", "high_protein"),
	newFood("Lentils", groupLegume, "plant", "high_fiber", "high_protein", "mediterranean"),
	newFood("Chickpeas", groupLegume, "plant", "high_fiber", "mediterranean"),
	newFood("Hummus", groupLegume, "plant", "sesame", "mediterranean", "quick"),
	newFood("Edamame", groupLegume, "soy", "plant", "high_protein", "low_carb"),

	// vegetable
	newFood("Leafy green salad", groupVegetable, "plant", "low_calorie", "high_fiber", "low_carb", "quick"),
	newFood("Steamed broccoli", groupVegetable, "plant", "low_calorie", "high_fiber", "low_carb"),
	newFood("Sautéed zucchini", groupVegetable, "plant", "low_calorie", "low_carb", "mediterranean"),
	newFood("Roasted eggplant with olive oil", groupVegetable, "plant", "low_carb", "mediterranean", "olive_oil"),
	newFood("Tomato and cucumber salad", groupVegetable, "plant", "low_calorie", "acidic", "quick", "mediterranean", "low_carb"),
	newFood("Grated carrot and beet salad", groupVegetable, "plant", "high_fiber", "quick"),
	newFood("Sautéed spinach", groupVegetable, "plant", "low_calorie", "low_carb"),
	newFood("Cauliflower rice", groupVegetable, "plant", "low_calorie", "low_carb"),

	// fruit
	newFood("Banana", groupFruit, "plant", "quick", "performance"),
	newFood("Apple", groupFruit, "plant", "quick", "low_gi", "high_fiber"),
	newFood("Papaya", groupFruit, "plant", "high_fiber"),
	newFood("Orange", groupFruit, "plant", "acidic", "quick"),
	newFood("Strawberries", groupFruit, "plant", "low_gi", "low_calorie", "low_carb"),
	newFood("Pear", groupFruit, "plant", "low_gi", "high_fiber"),
	newFood("Mixed berries", groupFruit, "plant", "low_gi", "low_carb", "mediterranean"),
	newFood("Grapes", groupFruit, "plant", "high_carb", "mediterranean"),

	// dairy and alternatives
	newFood("Natural yogurt", groupDairy, "dairy", "lactose", "high_protein"),
	newFood("Greek yogurt", groupDairy, "dairy", "lactose", "high_protein", "low_carb", "mediterranean"),
	newFood("Skimmed milk", groupDairy, "dairy", "lactose", "low_calorie"),
	newFood("Cottage cheese", groupDairy, "dairy", "lactose", "high_protein", "low_carb"),
	newFood("White cheese", groupDairy, "dairy", "lactose", "high_protein"),
	newFood("Lactose-free yogurt", groupDairy, "dairy", "high_protein"),
	newFood("Fortified soy drink", groupDairy, "soy", "plant"),
	newFood("Oat drink", groupDairy, "oats", "plant"),
	newFood("Coconut yogurt", groupDairy, "coconut", "plant", "low_carb"),

	// fats
	newFood("Mixed nuts", groupFat, "tree_nut", "plant", "low_carb", "mediterranean"),
	newFood("Brazil nuts", groupFat, "tree_nut", "plant", "low_carb"),
	newFood("Peanut butter", groupFat, "peanut", "plant", "high_protein", "quick"),
	newFood("Avocado", groupFat, "plant", "low_carb", "mediterranean"),
	newFood("Extra-virgin olive oil drizzle", groupFat, "plant", "olive_oil", "low_carb", "mediterranean"),
	newFood("Chia seeds", groupFat, "plant", "omega3", "high_fiber", "low_carb"),
	newFood("Flaxseed", groupFat, "plant", "omega3", "high_fiber"),
	newFood("Tahini", groupFat, "sesame", "plant", "mediterranean"),

	// beverages
	newFood("Herbal tea", groupBeverage, "plant", "quick"),
	newFood("Chamomile tea", groupBeverage, "plant"),
	newFood("Black coffee", groupBeverage, "plant", "caffeine", "quick"),
	newFood("Green tea", groupBeverage, "plant", "caffeine"),
	newFood("Water with lemon", groupBeverage, "plant", "acidic"),

	// snacks
	newFood("Rice cakes", groupSnack, "plant", "quick"),
	newFood("Roasted chickpeas", groupSnack, "plant", "high_fiber", "high_protein", "quick"),
	newFood("Protein bar", groupSnack, "dairy", "lactose", "soy", "processed", "high_protein", "quick"),
	newFood("Trail mix", groupSnack, "tree_nut", "peanut", "plant", "quick"),
	newFood("Dark chocolate (70%)", groupSnack, "plant", "sugar", "quick"),
	newFood("Fruit and nut bar", groupSnack, "tree_nut", "sugar", "quick"),
}

// neutralFoods are tried, in order, when exclusions empty a slot's pool.
var neutralFoods = map[foodGroup][]food{
	groupStarch:    {newFood("Boiled potato", groupStarch, "plant"), newFood("Rice", groupStarch, "plant")},
	groupProtein:   {newFood("Lentils", groupProtein, "plant"), newFood("Chickpeas", groupProtein, "plant")},
	groupLegume:    {newFood("Lentils", groupLegume, "plant"), newFood("Chickpeas", groupLegume, "plant")},
	groupVegetable: {newFood("Steamed vegetables", groupVegetable, "plant")},
	groupFruit:     {newFood("Seasonal fruit", groupFruit, "plant")},
	groupDairy:     {newFood("Rice drink", groupDairy, "plant")},
	groupFat:       {newFood("Olive oil (1 tsp)", groupFat, "plant", "olive_oil")},
	groupBeverage:  {newFood("Water", groupBeverage)},
	groupSnack:     {newFood("Seasonal fruit", groupSnack, "plant")},
}

// undefinedPortion fills a slot whose neutral foods are all excluded too.
const undefinedPortion = "Portion to be defined with your nutritionist"

/* ─── Diets ──────────────────────────────────────────────────────────── */

// dietExcludedTags lists the tags incompatible with each food preference.
// Omnivore and flexitarian have no hard exclusions.
var dietExcludedTags = map[string][]string{
	"vegetarian": {"meat", "fish", "shellfish", "seafood"},
	"vegan":      {"meat", "fish", "shellfish", "seafood", "egg", "dairy", "honey"},
}

// normalizeFoodPreference returns one of omnivore, vegetarian, vegan,
// flexitarian. Unknown values are treated as omnivore.
func normalizeFoodPreference(s string) string {
	switch p := lower(s); p {
	case "vegetarian", "vegan", "flexitarian", "omnivore":
		return p
	case "ovolactovegetarian", "lacto_ovo", "lacto-ovo vegetarian":
		return "vegetarian"
	}
	return "omnivore"
}

/* ─── Term expansion ─────────────────────────────────────────────────── */

// termTags expands declared allergy/intolerance terms into catalog tags.
var termTags = map[string][]string{
	"milk":       {"dairy", "lactose"},
	"dairy":      {"dairy", "lactose"},
	"lactose":    {"lactose"},
	"cheese":     {"dairy", "lactose"},
	"nut":        {"tree_nut"},
	"nuts":       {"tree_nut"},
	"tree nut":   {"tree_nut"},
	"tree nuts":  {"tree_nut"},
	"seafood":    {"shellfish", "seafood"},
	"shrimp":     {"shellfish"},
	"crustacean": {"shellfish"},
	"wheat":      {"wheat", "gluten"},
	"celiac":     {"gluten"},
	"eggs":       {"egg"},
	"soya":       {"soy"},
	"oat":        {"oats"},
}

/* ─── Medical conditions ─────────────────────────────────────────────── */

// avoidItem is one entry of the "foods to avoid" list.
type avoidItem struct {
	Food   string `json:"food"`
	Reason string `json:"reason"`
}

// conditionRule turns a declared medical condition into exclusions,
// ranking preferences and avoid-list entries.
type conditionRule struct {
	Keywords    []string
	Label       string
	Note        string
	ExcludeTags []string
	PreferTags  []string
	Avoid       []avoidItem
}

// conditionRules are matched against medical_conditions in this order.
var conditionRules = []conditionRule{
	{
		Keywords: []string{"diabet", "prediabet", "insulin resistance", "glucose"},
		Label:    "diabetes", Note: "low glycemic index foods, no added sugar",
		ExcludeTags: []string{"sugar"}, PreferTags: []string{"low_gi", "high_fiber"},
		Avoid: []avoidItem{
			{"Added sugar and sweets", "Blood glucose control"},
			{"Refined flour products", "High glycemic index"},
		},
	},
	{
		Keywords: []string{"hypertension", "high blood pressure"},
		Label:    "hypertension", Note: "low sodium",
		ExcludeTags: []string{"high_sodium", "processed"},
		Avoid: []avoidItem{
			{"Processed meats and sausages", "High sodium content"},
			{"Instant noodles and packaged seasonings", "High sodium content"},
		},
	},
	{
		Keywords: []string{"cholesterol", "dyslipidemia", "triglycer"},
		Label:    "dyslipidemia", Note: "more fiber and omega-3, no fried foods",
		ExcludeTags: []string{"fried", "processed"}, PreferTags: []string{"omega3", "high_fiber"},
		Avoid: []avoidItem{
			{"Fried foods", "Raise LDL cholesterol"},
			{"Fatty cuts of meat", "High saturated fat"},
		},
	},
	{
		Keywords: []string{"gastritis", "reflux", "gerd", "ulcer"},
		Label:    "gastritis/reflux", Note: "no acidic or stimulating foods",
		ExcludeTags: []string{"acidic", "caffeine", "spicy"},
		Avoid: []avoidItem{
			{"Coffee and caffeinated drinks", "Gastric irritation"},
			{"Citrus fruits and spicy foods", "Gastric irritation"},
		},
	},
	{
		Keywords: []string{"celiac", "coeliac", "gluten sensitivity"},
		Label:    "celiac disease", Note: "strictly gluten-free",
		ExcludeTags: []string{"gluten", "wheat", "oats"},
		Avoid: []avoidItem{
			{"Wheat, barley and rye", "Celiac disease"},
		},
	},
	{
		Keywords: []string{"kidney", "renal"},
		Label:    "kidney disease", Note: "controlled sodium and protein",
		ExcludeTags: []string{"high_sodium", "processed"},
		Avoid: []avoidItem{
			{"Excess salt", "Kidney protection"},
			{"Protein supplements", "Kidney overload"},
		},
	},
}

// goalAvoid lists goal-driven avoid-list entries.
var goalAvoid = map[Goal][]avoidItem{
	GoalWeightLoss: {
		{"Sugary drinks", "Empty calories"},
		{"Ultra-processed snacks", "Energy-dense with low satiety"},
	},
	GoalMuscleGain: {
		{"Alcohol", "Impairs muscle recovery"},
	},
	GoalMaintenance: {
		{"Ultra-processed foods", "Low nutritional quality"},
	},
	GoalHealth: {
		{"Ultra-processed foods", "Low nutritional quality"},
	},
}

// goalPreferTags bias ranking towards foods that serve the goal.
var goalPreferTags = map[Goal][]string{
	GoalWeightLoss:  {"low_calorie", "high_fiber"},
	GoalMuscleGain:  {"high_protein"},
	GoalMaintenance: {"whole_grain"},
	GoalHealth:      {"high_fiber", "whole_grain"},
}

/* ─── Variations ─────────────────────────────────────────────────────── */

// Variation identifies one of the six meal-plan templates.
type Variation int

const (
	VariationClassic Variation = iota + 1
	VariationPractical
	VariationHighProtein
	VariationLowCarb
	VariationMediterranean
	VariationFitness
)

// mealSlot is one meal of a template: its default time and the food
// groups it is filled from, in order.
type mealSlot struct {
	ID     string
	Name   string
	Time   string
	Groups []foodGroup
}

// variationTemplate is the strategy for one variation: the meal skeleton
// plus the tags it favors and the tags it pushes out.
type variationTemplate struct {
	Name       string
	Summary    string
	Slots      []mealSlot
	PreferTags []string
	AvoidTags  []string
}

// variationTemplates is the variation lookup table.
var variationTemplates = map[Variation]variationTemplate{
	VariationClassic: {
		Name:    "Classic",
		Summary: "balanced meals with all food groups spread over six meals",
		Slots: []mealSlot{
			{"breakfast", "Breakfast", "07:00", []foodGroup{groupStarch, groupDairy, groupFruit}},
			{"morning_snack", "Morning snack", "10:00", []foodGroup{groupFruit}},
			{"lunch", "Lunch", "12:30", []foodGroup{groupStarch, groupLegume, groupProtein, groupVegetable}},
			{"afternoon_snack", "Afternoon snack", "16:00", []foodGroup{groupDairy, groupFruit}},
			{"dinner", "Dinner", "19:30", []foodGroup{groupProtein, groupVegetable, groupStarch}},
			{"supper", "Supper", "21:30", []foodGroup{groupBeverage}},
		},
		PreferTags: []string{"whole_grain"},
	},
	VariationPractical: {
		Name:    "Practical",
		Summary: "quick-to-prepare foods in four meals for a busy routine",
		Slots: []mealSlot{
			{"breakfast", "Breakfast", "07:30", []foodGroup{groupStarch, groupFruit}},
			{"lunch", "Lunch", "12:30", []foodGroup{groupProtein, groupStarch, groupVegetable}},
			{"afternoon_snack", "Afternoon snack", "16:00", []foodGroup{groupSnack}},
			{"dinner", "Dinner", "19:30", []foodGroup{groupProtein, groupVegetable}},
		},
		PreferTags: []string{"quick"},
	},
	VariationHighProtein: {
		Name:    "High-Protein",
		Summary: "a protein source in every meal",
		Slots: []mealSlot{
			{"breakfast", "Breakfast", "07:00", []foodGroup{groupProtein, groupStarch, groupDairy}},
			{"morning_snack", "Morning snack", "10:00", []foodGroup{groupDairy, groupFruit}},
			{"lunch", "Lunch", "12:30", []foodGroup{groupProtein, groupStarch, groupLegume, groupVegetable}},
			{"afternoon_snack", "Afternoon snack", "16:00", []foodGroup{groupProtein, groupFruit}},
			{"dinner", "Dinner", "19:30", []foodGroup{groupProtein, groupVegetable, groupStarch}},
			{"supper", "Supper", "21:30", []foodGroup{groupDairy}},
		},
		PreferTags: []string{"high_protein"},
	},
	VariationLowCarb: {
		Name:    "Low-Carb",
		Summary: "starches replaced by vegetables, proteins and good fats",
		Slots: []mealSlot{
			{"breakfast", "Breakfast", "07:00", []foodGroup{groupProtein, groupDairy, groupFat}},
			{"morning_snack", "Morning snack", "10:00", []foodGroup{groupFat}},
			{"lunch", "Lunch", "12:30", []foodGroup{groupProtein, groupVegetable, groupVegetable, groupFat}},
			{"afternoon_snack", "Afternoon snack", "16:00", []foodGroup{groupDairy, groupFruit}},
			{"dinner", "Dinner", "19:30", []foodGroup{groupProtein, groupVegetable, groupFat}},
		},
		PreferTags: []string{"low_carb", "low_gi"},
		AvoidTags:  []string{"high_carb", "sugar"},
	},
	VariationMediterranean: {
		Name:    "Mediterranean",
		Summary: "olive oil, fish, legumes and whole grains",
		Slots: []mealSlot{
			{"breakfast", "Breakfast", "07:30", []foodGroup{groupStarch, groupDairy, groupFruit}},
			{"morning_snack", "Morning snack", "10:30", []foodGroup{groupFat}},
			{"lunch", "Lunch", "13:00", []foodGroup{groupProtein, groupLegume, groupVegetable, groupFat, groupStarch}},
			{"afternoon_snack", "Afternoon snack", "16:30", []foodGroup{groupFruit}},
			{"dinner", "Dinner", "20:00", []foodGroup{groupProtein, groupVegetable, groupStarch}},
		},
		PreferTags: []string{"mediterranean", "omega3", "olive_oil"},
	},
	VariationFitness: {
		Name:    "Fitness",
		Summary: "meals organized around training with pre- and post-workout snacks",
		Slots: []mealSlot{
			{"breakfast", "Breakfast", "07:00", []foodGroup{groupStarch, groupProtein, groupFruit}},
			{"pre_workout", "Pre-workout", "10:00", []foodGroup{groupStarch, groupFruit}},
			{"lunch", "Lunch", "12:30", []foodGroup{groupProtein, groupStarch, groupLegume, groupVegetable}},
			{"post_workout", "Post-workout", "16:00", []foodGroup{groupProtein, groupFruit}},
			{"dinner", "Dinner", "19:30", []foodGroup{groupProtein, groupStarch, groupVegetable}},
			{"supper", "Supper", "21:30", []foodGroup{groupDairy}},
		},
		PreferTags: []string{"performance", "high_protein"},
	},
}

// templateFor returns the template for v; out-of-range ids fall back to Classic.
func templateFor(v Variation) (Variation, variationTemplate) {
	if t, ok := variationTemplates[v]; ok {
		return v, t
	}
	return VariationClassic, variationTemplates[VariationClassic]
}
