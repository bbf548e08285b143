package service

import (
	"regexp"
	"strings"

	"github.com/riverlabs/nexus/internal/domain"
)

// Local pattern heuristics for the syntactic layer. Voice and nominalisation
// detection run in-process; complexity and transitivity go to the oracle.

var passiveRe = regexp.MustCompile(`(?i)\b(was|were|is|are|been|being|be)\s+(\w+ed|made|done|given|taken|seen|known|found|told|shown|built|kept|left|held|brought|set|put|run|cut|let|lost|paid|met|hit|shut|hurt|read|thought|felt|bought|caught|taught|fought|sought|spent|sent|lent|bent|dealt|meant|dreamt|learnt|burnt|spoilt|spilt|smelt|understood|stood|sat|lay|led|fed|bid|rid|shed|split|spread|thrust|cast|cost|knit)\b`)

var sentenceSplitRe = regexp.MustCompile(`[.!?]+\s+|[.!?]+$`)

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceSplitRe.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func detectVoice(text string) []domain.VoiceInstance {
	var results []domain.VoiceInstance
	for _, sentence := range splitSentences(text) {
		if passiveRe.MatchString(sentence) {
			results = append(results, domain.VoiceInstance{
				Sentence:     sentence,
				Voice:        domain.VoicePassive,
				Significance: "Agent is obscured or de-emphasised",
			})
		} else {
			results = append(results, domain.VoiceInstance{
				Sentence:     sentence,
				Voice:        domain.VoiceActive,
				Significance: "Clear agent-action relationship",
			})
		}
	}
	return results
}

type nominalisationPattern struct {
	re     *regexp.Regexp
	suffix string
}

var nominalisationPatterns = []nominalisationPattern{
	{regexp.MustCompile(`\b(\w+tion)\b`), "tion"},
	{regexp.MustCompile(`\b(\w+sion)\b`), "sion"},
	{regexp.MustCompile(`\b(\w+ment)\b`), "ment"},
	{regexp.MustCompile(`\b(\w+ance)\b`), "ance"},
	{regexp.MustCompile(`\b(\w+ence)\b`), "ence"},
	{regexp.MustCompile(`\b(\w+ity)\b`), "ity"},
	{regexp.MustCompile(`\b(\w+ness)\b`), "ness"},
	{regexp.MustCompile(`\b(\w+ism)\b`), "ism"},
}

// Common words that carry a nominalisation suffix but are not nominalisations.
var nominalisationExceptions = map[string]struct{}{
	"information": {}, "situation": {}, "question": {}, "position": {},
	"condition": {}, "mention": {}, "nation": {}, "station": {},
	"section": {}, "attention": {}, "addition": {}, "fashion": {},
	"opinion": {}, "religion": {}, "version": {}, "season": {},
	"reason": {}, "person": {}, "lesson": {}, "television": {},
	"environment": {}, "government": {}, "department": {}, "management": {},
	"moment": {}, "element": {}, "comment": {}, "document": {},
	"statement": {}, "treatment": {}, "movement": {}, "agreement": {},
	"development": {}, "argument": {}, "equipment": {}, "experiment": {},
	"apartment": {}, "importance": {}, "performance": {}, "appearance": {},
	"distance": {}, "instance": {}, "substance": {}, "sentence": {},
	"evidence": {}, "experience": {}, "difference": {}, "reference": {},
	"presence": {}, "violence": {}, "silence": {}, "absence": {},
	"patience": {}, "community": {}, "opportunity": {}, "security": {},
	"quality": {}, "reality": {}, "ability": {}, "activity": {},
	"authority": {}, "university": {}, "majority": {}, "identity": {},
	"property": {}, "society": {}, "variety": {}, "business": {},
	"darkness": {}, "fitness": {}, "illness": {}, "kindness": {},
	"madness": {}, "sadness": {}, "weakness": {}, "awareness": {},
	"happiness": {}, "loneliness": {}, "mechanism": {}, "organism": {},
	"capitalism": {}, "socialism": {},
}

func detectNominalisations(text string) []domain.Nominalisation {
	lower := strings.ToLower(text)
	var results []domain.Nominalisation

	for _, p := range nominalisationPatterns {
		for _, match := range p.re.FindAllStringSubmatch(lower, -1) {
			word := match[1]
			if _, skip := nominalisationExceptions[word]; skip {
				continue
			}

			var verbForm string
			switch p.suffix {
			case "tion":
				verbForm = strings.TrimSuffix(word, "tion") + "te"
			case "sion":
				verbForm = strings.TrimSuffix(word, "sion") + "de"
			case "ance":
				verbForm = strings.TrimSuffix(word, "ance")
			case "ence":
				verbForm = strings.TrimSuffix(word, "ence")
			default:
				verbForm = strings.TrimSuffix(word, p.suffix)
			}

			results = append(results, domain.Nominalisation{
				Original: word,
				VerbForm: verbForm,
				Effect:   "Converts a process into a thing, hiding who does the action",
			})
		}
	}
	return results
}
