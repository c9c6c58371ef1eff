package testutil

import (
	"time"

	"lstbot/internal/catalog"
	"lstbot/internal/domain"

	"go.uber.org/zap"
)

// TestSignIDs is the sign vocabulary shared by tests and the seed migration
var TestSignIDs = []string{
	"medecin", "infirmier", "dentiste", "sage femme", "aller", "venir",
	"hopital", "coeur", "poumon", "douleur", "tete", "mal tete", "mal ventre",
	"ventre", "fievre", "medicament", "pharmacie", "ambulance", "urgence",
	"sang", "prise sang", "tension arterielle", "groupe sanguin",
	"salle attente", "bloc operatoire", "rendez vous", "bonjour", "merci",
	"oui", "non", "grossesse", "bebe", "toux", "tousser", "dent", "oeil",
	"malade", "piqure", "vaccin", "aide", "carnet sante", "souffrir",
	"saigner", "genou", "bras", "dos",
}

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, lang domain.Language) *domain.User {
	return &domain.User{
		UserID:    userID,
		Language:  lang,
		Rate:      domain.DefaultRate,
		CreatedAt: time.Now(),
	}
}

// NewTestSign creates a sign with default timings
func NewTestSign(id string) domain.SignEntry {
	return domain.SignEntry{
		ID:            id,
		DisplayName:   id,
		Duration:      domain.DefaultClipDuration,
		TransitionIn:  domain.DefaultTransition,
		TransitionOut: domain.DefaultTransition,
		Format:        "mp4",
		File:          id + ".mp4",
	}
}

// NewTestSigns creates one sign per id
func NewTestSigns(ids ...string) []domain.SignEntry {
	signs := make([]domain.SignEntry, len(ids))
	for i, id := range ids {
		signs[i] = NewTestSign(id)
	}
	return signs
}

// NewTestCatalog creates a catalog holding every id of TestSignIDs
func NewTestCatalog() *catalog.Catalog {
	return catalog.New(NewTestSigns(TestSignIDs...), zap.NewNop())
}

// NewTestTranslation creates a stored translation record
func NewTestTranslation(id string, userID int64, text string) *domain.Translation {
	return &domain.Translation{
		ID:        id,
		UserID:    userID,
		Text:      text,
		Language:  domain.LangFrench,
		Matched:   []string{},
		Missing:   []string{},
		CreatedAt: time.Now(),
	}
}
