package handler

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"lstbot/internal/domain"
	"lstbot/internal/service"
)

const (
	msgWelcome = "👋 Bonjour !\n\n" +
		"Envoyez-moi un texte et je le traduis en langue des signes.\n\n" +
		"Langue actuelle : %s\n\n" +
		"/lang – changer de langue\n" +
		"/replay – rejouer la dernière séquence\n" +
		"/stop – arrêter la lecture\n" +
		"/goto N – aller au signe N\n" +
		"/speed X – vitesse de lecture (%.2g à %.2g)\n" +
		"/stats – statistiques"
	msgInternalError  = "Une erreur est survenue. Réessayez plus tard."
	msgChooseLanguage = "🌍 Choisissez la langue de vos messages :"
	msgLanguageSet    = "Langue : %s"
	msgUnknownLang    = "Langue inconnue. Choix possibles : %s"
	msgNothingPlaying = "Aucune lecture en cours"
	msgNothingReplay  = "Rien à rejouer"
	msgInvalidGoto    = "Usage : /goto N (numéro du signe)"
	msgInvalidSpeed   = "Usage : /speed X (par exemple /speed 0.5)"
	msgSpeedSet       = "Vitesse : %s"
	msgClipFailed     = "⚠️ Signe indisponible : %s"
	msgSequenceDone   = "✅ Séquence terminée"
)

// rateSteps are the speeds offered by the slower and faster buttons
var rateSteps = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2}

// formatResult renders a translation result for the chat
func formatResult(result domain.TranslationResult) string {
	var b strings.Builder

	if result.Success {
		b.WriteString("🤟 ")
	} else {
		b.WriteString("❌ ")
	}
	b.WriteString(result.Message)

	if len(result.MatchedWords) > 0 {
		b.WriteString("\n\n✅ ")
		b.WriteString(strings.Join(result.MatchedWords, ", "))
	}
	if len(result.MissingWords) > 0 {
		b.WriteString("\n❓ ")
		b.WriteString(strings.Join(result.MissingWords, ", "))
	}
	if result.TotalDurationSeconds > 0 {
		fmt.Fprintf(&b, "\n⏱ %s s", strconv.FormatFloat(result.TotalDurationSeconds, 'f', 1, 64))
	}

	return b.String()
}

// formatStats renders catalog and user statistics
func formatStats(stats *service.Stats, now time.Time) string {
	var b strings.Builder

	b.WriteString("📊 Statistiques\n\n")
	fmt.Fprintf(&b, "Signes disponibles : %d\n", stats.Catalog.Total)
	fmt.Fprintf(&b, "Durée totale : %s\n", stats.Catalog.TotalDuration.Round(time.Second))

	if formats := sortedCounts(stats.Catalog.ByFormat); formats != "" {
		fmt.Fprintf(&b, "Formats : %s\n", formats)
	}
	if tags := sortedCounts(stats.Catalog.ByTag); tags != "" {
		fmt.Fprintf(&b, "Catégories : %s\n", tags)
	}

	fmt.Fprintf(&b, "\nVos traductions : %d", stats.User.Translations)
	if stats.User.LastAt != nil {
		fmt.Fprintf(&b, "\nDernière : %s", domain.DisplayDate(*stats.User.LastAt, now))
	}

	return b.String()
}

func sortedCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s (%d)", k, counts[k])
	}
	return strings.Join(parts, ", ")
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "×"
}

// parseGoto reads a 1-based sign number and returns the queue index
func parseGoto(payload string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

// parseRate accepts "0.5", "0,5", "x2" and "2x"
func parseRate(payload string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(payload))
	s = strings.TrimSuffix(strings.TrimPrefix(s, "x"), "x")
	s = strings.TrimSuffix(s, "×")
	s = strings.ReplaceAll(s, ",", ".")

	rate, err := strconv.ParseFloat(s, 64)
	if err != nil || rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, false
	}
	return domain.ClampRate(rate), true
}

// stepRate moves to the neighbouring speed step
func stepRate(current float64, dir int) float64 {
	if dir > 0 {
		for _, r := range rateSteps {
			if r > current {
				return r
			}
		}
		return rateSteps[len(rateSteps)-1]
	}
	for i := len(rateSteps) - 1; i >= 0; i-- {
		if rateSteps[i] < current {
			return rateSteps[i]
		}
	}
	return rateSteps[0]
}
