package lemma

import "strings"

// GermanParticles lists the detachable verb prefixes of German.
var GermanParticles = []string{
	"ab", "an", "auf", "aus", "bei", "da", "dabei", "dar", "daran", "dazu",
	"durch", "ein", "empor", "entgegen", "entlang", "entzwei", "fehl", "fern",
	"fest", "fort", "frei", "gegenüber", "heim", "her", "herab", "heran",
	"herauf", "heraus", "herbei", "herein", "herüber", "herum", "herunter",
	"hervor", "hin", "hinab", "hinauf", "hinaus", "hinein", "hinüber",
	"hinunter", "hinweg", "hinzu", "hoch", "los", "mit", "nach", "nieder",
	"statt", "teil", "um", "voran", "voraus", "vorbei", "vorüber", "vor",
	"weg", "weiter", "wieder", "zu", "zurecht", "zurück", "zusammen",
}

// Particles returns the separable particle list for a language code.
// Languages without separable verbs return nil.
func Particles(lang string) []string {
	switch strings.ToLower(lang) {
	case "de", "de-de", "de-at", "de-ch":
		return GermanParticles
	}
	return nil
}
