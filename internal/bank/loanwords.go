// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package bank

// transparentLoanwords are English words whose Korean "meaning" is a
// phonetic transliteration (computer → 컴퓨터). For Korean speakers a
// meaning-recognition question on these words carries no information, so
// the bank withholds Types 1 and 2 for them and the selector caps how
// many appear per test.
var transparentLoanwords = map[string]struct{}{
	// Food & drink
	"banana": {}, "barbecue": {}, "buffet": {}, "cafe": {}, "cake": {},
	"caramel": {}, "cereal": {}, "cheese": {}, "chocolate": {}, "cocktail": {},
	"coffee": {}, "cookie": {}, "dessert": {}, "juice": {}, "ketchup": {},
	"lemon": {}, "mayonnaise": {}, "muffin": {}, "mustard": {}, "orange": {},
	"pasta": {}, "pizza": {}, "salad": {}, "sandwich": {}, "steak": {},
	"syrup": {}, "tomato": {}, "vitamin": {}, "waffle": {}, "yogurt": {},

	// Technology
	"algorithm": {}, "antenna": {}, "battery": {}, "bluetooth": {}, "cable": {},
	"camera": {}, "computer": {}, "dashboard": {}, "database": {}, "desktop": {},
	"digital": {}, "hardware": {}, "helicopter": {}, "internet": {}, "keyboard": {},
	"laptop": {}, "laser": {}, "monitor": {}, "motor": {}, "neon": {},
	"network": {}, "radar": {}, "radio": {}, "robot": {}, "sensor": {},
	"server": {}, "smartphone": {}, "software": {}, "tablet": {}, "video": {},

	// Transportation & places
	"apartment": {}, "asphalt": {}, "bus": {}, "cabin": {}, "campus": {},
	"cement": {}, "concrete": {}, "elevator": {}, "escalator": {}, "garage": {},
	"hotel": {}, "lobby": {}, "ramp": {}, "resort": {}, "spa": {},
	"taxi": {}, "tent": {}, "tile": {}, "tower": {}, "tunnel": {},

	// Sports & arts
	"ballet": {}, "concert": {}, "drama": {}, "festival": {}, "golf": {},
	"guitar": {}, "jazz": {}, "marathon": {}, "opera": {}, "penguin": {},
	"piano": {}, "pool": {}, "rocket": {}, "tennis": {},

	// Daily life & business
	"album": {}, "belt": {}, "bench": {}, "bonus": {}, "chart": {},
	"coupon": {}, "crystal": {}, "diamond": {}, "icon": {}, "image": {},
	"jacket": {}, "logo": {}, "mask": {}, "menu": {}, "partner": {},
	"pattern": {}, "pedal": {}, "plastic": {}, "premium": {}, "project": {},
	"receipt": {}, "scarf": {}, "slogan": {}, "sofa": {}, "style": {},
	"system": {}, "team": {}, "ticket": {}, "trend": {}, "vest": {},
	"virus": {},
}

// IsTransparentLoanword reports whether the lowercased lemma is in the
// transliteration set.
func IsTransparentLoanword(lemma string) bool {
	_, ok := transparentLoanwords[lemma]
	return ok
}
