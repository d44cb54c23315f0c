// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package bank

import (
	"sort"
	"strings"
)

// The vocabulary source carries ~3,300 raw topic strings. Content
// balancing needs a small stable vocabulary, so raw topics are folded
// into the consolidated categories below by first substring match.
// Order matters: earlier categories win.

// DefaultTopic is assigned when no category pattern matches.
const DefaultTopic = "general"

type topicCategory struct {
	name     string
	patterns []string
}

var topicCategories = []topicCategory{
	{"daily_life", []string{
		"daily life", "home", "household", "routine", "lifestyle", "shopping",
		"domestic", "chores", "cleaning", "hygiene", "accommodation",
		"hobbies", "hobby", "leisure", "holiday", "celebration", "greet", "life",
	}},
	{"emotions", []string{
		"emotion", "feeling", "mood", "happiness", "sadness", "anger", "fear",
		"anxiety", "joy", "love", "grief", "psychological", "mental health",
		"sorrow", "pleasure", "despair", "hope", "surprise", "disgust",
		"frustration", "sympathy", "empathy", "passion",
	}},
	{"action", []string{
		"action", "movement", "motion", "activity", "physical", "gesture",
		"posture", "speed", "continuation", "cessation", "destruction",
		"creation", "impact", "cause and effect",
	}},
	{"personality", []string{
		"personality", "character", "behavior", "attitude", "habit", "trait",
		"temperament", "manner", "identity", "reputation", "quality", "intensity",
	}},
	{"cognition", []string{
		"thinking", "thought", "logic", "reasoning", "analysis", "perception",
		"sense", "opinion", "idea", "concept", "abstract", "imagination",
		"decision", "choice", "judgment", "problem", "solution", "intelligence",
		"memory", "attention", "evaluation", "comparison", "possibility",
		"planning", "skill", "ability", "control", "importance", "success",
		"achievement", "mistake", "challenge", "support", "connection",
		"distribution", "accumulation", "signaling", "representation",
		"information", "agreement",
	}},
	{"nature", []string{
		"nature", "environment", "weather", "climate", "geography", "landscape",
		"earth", "geology", "ocean", "sea", "mountain", "river", "forest",
		"ecology", "space", "global",
	}},
	{"animals", []string{
		"animal", "bird", "fish", "insect", "mammal", "reptile", "pet",
		"wildlife", "creature", "species", "genetic",
	}},
	{"plants", []string{
		"plant", "flower", "tree", "garden", "vegetation", "farming",
		"agriculture", "crop", "harvest",
	}},
	{"health", []string{
		"health", "body", "medicine", "medical", "disease", "illness",
		"hospital", "doctor", "treatment", "anatomy", "organ", "injury",
		"symptom", "therapy", "drug", "death", "safety", "accident",
	}},
	{"food", []string{
		"food", "cooking", "drink", "meal", "recipe", "kitchen", "taste",
		"nutrition", "diet", "restaurant", "cuisine",
	}},
	{"society", []string{
		"society", "culture", "community", "social", "tradition", "custom",
		"population", "demographic", "civilization", "people", "gender",
		"class", "royalty", "fantasy", "mythology", "magic", "story", "stories",
	}},
	{"communication", []string{
		"communication", "language", "speech", "media", "conversation",
		"writing", "reading", "alphabet", "grammar", "word", "letter",
		"message", "news", "sound", "humor",
	}},
	{"education", []string{
		"education", "school", "learning", "academic", "study", "student",
		"teacher", "university", "exam", "knowledge",
	}},
	{"science", []string{
		"science", "biology", "physics", "chemistry", "research", "experiment",
		"technology", "tech", "computer", "digital", "engineering", "data",
		"software", "internet", "math", "geometry", "energy", "construction",
		"architecture", "building", "structure",
	}},
	{"time", []string{
		"time", "history", "change", "age", "period", "season", "calendar",
		"schedule", "past", "future", "duration", "event",
	}},
	{"crime", []string{
		"crime", "law", "punishment", "justice", "court", "police", "prison",
		"legal", "judge", "trial", "rule",
	}},
	{"government", []string{
		"government", "politic", "state", "nation", "policy", "democracy",
		"election", "parliament", "authority", "power", "administration",
		"regulation",
	}},
	{"travel", []string{
		"transport", "travel", "vehicle", "location", "place", "city",
		"country", "map", "road", "journey", "destination", "tourism",
		"direction", "navigation",
	}},
	{"relationships", []string{
		"relationship", "family", "friend", "marriage", "parent", "child",
		"sibling", "partner", "neighbor",
	}},
	{"business", []string{
		"business", "finance", "economic", "money", "job", "work", "career",
		"employment", "trade", "market", "company", "industry", "commerce",
		"banking", "investment", "profit", "economy", "possession",
	}},
	{"sports", []string{
		"sport", "game", "exercise", "competition", "athlete", "fitness",
		"team", "match", "race", "olympic",
	}},
	{"religion", []string{
		"religion", "faith", "church", "spiritual", "god", "prayer", "worship",
		"belief", "sacred", "philosophy", "christianity", "islam", "buddhis",
	}},
	{"ethics", []string{
		"ethic", "moral", "value", "virtue", "conscience", "responsibility",
		"duty", "right", "wrong",
	}},
	{"conflict", []string{
		"conflict", "war", "military", "army", "battle", "weapon", "violence",
		"fight", "attack", "defense", "soldier", "navy",
	}},
	{"arts", []string{
		"art", "music", "entertainment", "performance", "literature",
		"theater", "film", "movie", "dance", "paint", "sculpture", "creative",
		"design", "photograph", "sing", "craft",
	}},
	{"appearance", []string{
		"appearance", "description", "fashion", "beauty", "clothing", "cloth",
		"wear", "dress", "style", "color", "shape", "size", "material",
		"texture", "fabric", "accessori",
	}},
	{"numbers", []string{
		"number", "quantity", "measurement", "math", "count", "calculation",
		"statistic", "amount", "unit",
	}},
	{"objects", []string{
		"object", "tool", "device", "machine", "equipment", "instrument",
		"container", "furniture",
	}},
}

// MapTopic folds a raw topic string into its consolidated category.
// Multi-topic strings ("animals|nature") resolve to the first part that
// matches any category.
func MapTopic(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "N/A" || trimmed == "None" || trimmed == "general" {
		return DefaultTopic
	}

	key := strings.ToLower(trimmed)
	parts := strings.Split(strings.ReplaceAll(key, "|", ","), ",")

	for _, part := range parts {
		part = strings.TrimSpace(part)
		for _, cat := range topicCategories {
			for _, pattern := range cat.patterns {
				if strings.Contains(part, pattern) {
					return cat.name
				}
			}
		}
	}
	return DefaultTopic
}

// TopicCategories returns all consolidated category names including the
// fallback, sorted.
func TopicCategories() []string {
	names := make([]string, 0, len(topicCategories)+1)
	for _, cat := range topicCategories {
		names = append(names, cat.name)
	}
	names = append(names, DefaultTopic)
	sort.Strings(names)
	return names
}

// primaryToken returns the first token of a pipe or comma separated list.
func primaryToken(s string) string {
	if s == "" {
		return ""
	}
	if i := strings.IndexAny(s, "|,"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
